package dispatch

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/madhumi2611/auctiond/internal/model"
	"github.com/madhumi2611/auctiond/internal/registry"
)

// HelpText is the reply for unrecognized commands.
const HelpText = "Commands: list, start <id>, bid <id> <amount>, add <name> [description] <price>"

// Dispatcher routes client commands to the registry.
type Dispatcher struct {
	reg    *registry.Registry
	logger *slog.Logger
}

// New creates a Dispatcher.
func New(reg *registry.Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{reg: reg, logger: logger}
}

// Dispatch executes one command line for a session and returns the
// reply text. terminate is true when the session must be closed after
// the reply is delivered.
func (d *Dispatcher) Dispatch(session uuid.UUID, line string) (reply string, terminate bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return HelpText, false
	}

	switch fields[0] {
	case "list":
		return d.list(session), false
	case "start":
		return d.start(fields[1:]), false
	case "bid":
		return d.bid(session, fields[1:])
	case "add":
		return d.add(fields[1:]), false
	default:
		return HelpText, false
	}
}

func (d *Dispatcher) list(session uuid.UUID) string {
	var b strings.Builder
	b.WriteString("=== ITEMS ===\n")
	for _, item := range d.reg.ListItems() {
		fmt.Fprintf(&b, "ID:%d %s $%s", item.ID, item.Name, item.CurrentBid)
		if item.HighestBidder != "" {
			fmt.Fprintf(&b, " (%s)", item.HighestBidder)
		}
		fmt.Fprintf(&b, " Status:%s\n", item.Status)
	}
	if bidder, ok := d.reg.GetBidder(session); ok {
		fmt.Fprintf(&b, "Budget: %s remaining of %s", bidder.Remaining(), bidder.Budget)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) start(args []string) string {
	if len(args) != 1 {
		return HelpText
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return HelpText
	}

	switch d.reg.StartAuction(id) {
	case registry.Started:
		return "Auction started!"
	default:
		return "Cannot start auction"
	}
}

func (d *Dispatcher) bid(session uuid.UUID, args []string) (string, bool) {
	if len(args) != 2 {
		return HelpText, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return HelpText, false
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil || amount.Sign() <= 0 {
		return "Invalid bid", false
	}

	outcome := d.reg.PlaceBid(session, id, amount)
	switch outcome {
	case registry.Accepted:
		return "Bid accepted!", false
	case registry.BudgetExceeded:
		return "Bid exceeds your budget, goodbye", true
	case registry.BidderNotFound:
		// Session raced its own disconnect; close it out.
		d.logger.Warn("bid from unregistered session", "session", session)
		return "Not registered", true
	default:
		return "Invalid bid", false
	}
}

// add accepts "add <name> <price>" or "add <name> <description> <price>".
func (d *Dispatcher) add(args []string) string {
	if len(args) < 2 || len(args) > 3 {
		return HelpText
	}

	name := args[0]
	description := ""
	priceArg := args[1]
	if len(args) == 3 {
		description = args[1]
		priceArg = args[2]
	}

	price, err := decimal.NewFromString(priceArg)
	if err != nil || price.Sign() <= 0 {
		return "Invalid price"
	}

	item := d.reg.AddItem(name, description, price)
	return fmt.Sprintf("Item added! ID:%d", item.ID)
}

// FormatHandshakeError renders the terminal message for a failed
// identity/budget handshake.
func FormatHandshakeError(reason string) string {
	return "Cannot join auction: " + reason
}

// FormatWelcome renders the post-handshake greeting.
func FormatWelcome(bidder model.Bidder) string {
	return fmt.Sprintf("Welcome %s! Budget: %s. %s", bidder.Name, bidder.Budget, HelpText)
}
