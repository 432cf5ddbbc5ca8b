package registry

// Outcome is the result of a registry operation. Business-rule
// violations are reported as values, never as errors or panics.
type Outcome int

const (
	// Accepted means a bid was applied to an item.
	Accepted Outcome = iota

	// Started means an auction was opened for bidding.
	Started

	// BidderNotFound means the session has no registered bidder.
	BidderNotFound

	// BudgetExceeded means the bid was over the bidder's remaining
	// capacity. Terminating: the bidder forfeits participation.
	BudgetExceeded

	// InvalidBid means the item is missing, not active, or the amount
	// does not beat the current bid. Soft: the session continues.
	InvalidBid

	// CannotStart means the item is missing or not pending. Soft.
	CannotStart
)

// Terminating reports whether the outcome ends the bidder's connection.
func (o Outcome) Terminating() bool {
	return o == BudgetExceeded
}

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Started:
		return "started"
	case BidderNotFound:
		return "bidder_not_found"
	case BudgetExceeded:
		return "budget_exceeded"
	case InvalidBid:
		return "invalid_bid"
	case CannotStart:
		return "cannot_start"
	default:
		return "unknown"
	}
}
