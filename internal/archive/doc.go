// Package archive implements the optional append-only event archive.
//
// The archiver consumes the notification hub's typed event tap, batches
// rows, and inserts them into the auction_events table on a size
// threshold or flush interval. It records history only; nothing is ever
// read back, and auction state does not survive a restart.
//
// Expected schema:
//
//	CREATE TABLE auction_events (
//	    received_at TIMESTAMPTZ NOT NULL,
//	    kind        TEXT        NOT NULL,
//	    item        TEXT,
//	    bidder      TEXT,
//	    amount      NUMERIC,
//	    message     TEXT        NOT NULL
//	);
package archive
