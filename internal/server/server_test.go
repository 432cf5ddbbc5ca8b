package server

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/madhumi2611/auctiond/internal/dispatch"
	"github.com/madhumi2611/auctiond/internal/hub"
	"github.com/madhumi2611/auctiond/internal/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer starts a full stack on an ephemeral port with one
// seeded item (Watch at 100) and returns the listen address.
func newTestServer(t *testing.T, auctionDuration time.Duration) (string, *registry.Registry) {
	t.Helper()

	logger := testLogger()
	h := hub.New(hub.DefaultConfig(), logger)
	reg := registry.New(registry.Config{AuctionDuration: auctionDuration}, h, logger)
	if err := reg.Start(context.Background()); err != nil {
		t.Fatalf("registry start: %v", err)
	}
	reg.AddItem("Watch", "Vintage pocket watch", decimal.NewFromInt(100))

	srv := New(Config{
		ListenAddr:       "127.0.0.1:0",
		HandshakeTimeout: 5 * time.Second,
	}, reg, h, dispatch.New(reg, logger), logger)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("server start: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
		reg.Stop(ctx)
	})
	return srv.Addr(), reg
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dialServer(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.t.Fatalf("send %q: %v", line, err)
	}
}

// expect reads lines until one contains substr.
func (c *testClient) expect(substr string) string {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for i := 0; i < 100; i++ {
		line, err := c.r.ReadString('\n')
		if err != nil {
			c.t.Fatalf("expect %q: read failed after %d lines: %v", substr, i, err)
		}
		if strings.Contains(line, substr) {
			return strings.TrimRight(line, "\r\n")
		}
	}
	c.t.Fatalf("expect %q: not seen in 100 lines", substr)
	return ""
}

// expectClosed reads until the server closes the connection.
func (c *testClient) expectClosed() {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, err := c.r.ReadString('\n'); err != nil {
			if err == io.EOF {
				return
			}
			c.t.Fatalf("expected clean close, got: %v", err)
		}
	}
}

// join performs the handshake.
func (c *testClient) join(name, budget string) {
	c.t.Helper()
	c.expect("Username:")
	c.send(name)
	c.expect("Budget:")
	c.send(budget)
	c.expect("Welcome " + name)
}

func TestHandshakeAndList(t *testing.T) {
	addr, _ := newTestServer(t, time.Hour)

	c := dialServer(t, addr)
	c.join("alice", "500")

	c.send("list")
	c.expect("=== ITEMS ===")
	c.expect("ID:1 Watch $100 Status:pending")
	c.expect("Budget: 500 remaining of 500")
}

func TestInvalidBudgetClosesConnection(t *testing.T) {
	addr, _ := newTestServer(t, time.Hour)

	c := dialServer(t, addr)
	c.expect("Username:")
	c.send("alice")
	c.expect("Budget:")
	c.send("all of it")
	c.expect("Cannot join auction: budget must be a positive number")
	c.expectClosed()
}

func TestEmptyUsernameClosesConnection(t *testing.T) {
	addr, _ := newTestServer(t, time.Hour)

	c := dialServer(t, addr)
	c.expect("Username:")
	c.send("   ")
	c.expect("Cannot join auction: username must not be empty")
	c.expectClosed()
}

func TestBroadcastsReachAllClients(t *testing.T) {
	addr, _ := newTestServer(t, time.Hour)

	alice := dialServer(t, addr)
	alice.join("alice", "500")
	bob := dialServer(t, addr)
	bob.join("bob", "400")

	alice.send("start 1")
	alice.expect("[AUCTION: Watch started, Price: 100]")
	bob.expect("[AUCTION: Watch started, Price: 100]")

	bob.send("bid 1 150")
	bob.expect("Bid accepted!")
	alice.expect("[BID: Watch 150 by bob]")

	// The leader disconnecting resets the item for everyone else.
	bob.conn.Close()
	alice.expect("[RESET: Watch back to 100, bob left]")

	alice.send("list")
	alice.expect("ID:1 Watch $100 Status:active")
}

func TestOverBudgetBidderIsDisconnected(t *testing.T) {
	addr, reg := newTestServer(t, time.Hour)

	alice := dialServer(t, addr)
	alice.join("alice", "500")
	bob := dialServer(t, addr)
	bob.join("bob", "100")

	alice.send("start 1")
	alice.expect("[AUCTION: Watch started, Price: 100]")

	bob.send("bid 1 200")
	bob.expect("Bid exceeds your budget, goodbye")
	bob.expectClosed()

	alice.expect("[DROPPED: bob exceeded budget]")

	// Bob's registration is gone once the session unwinds.
	deadline := time.Now().Add(2 * time.Second)
	for reg.Stats().Bidders != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("bidders = %d, want 1", reg.Stats().Bidders)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTimedCloseSellsToLeader(t *testing.T) {
	addr, _ := newTestServer(t, 150*time.Millisecond)

	alice := dialServer(t, addr)
	alice.join("alice", "500")

	alice.send("start 1")
	alice.expect("[AUCTION: Watch started, Price: 100]")
	alice.send("bid 1 150")
	alice.expect("Bid accepted!")

	alice.expect("[ENDED: Watch sold to alice for 150]")

	alice.send("list")
	alice.expect("ID:1 Watch $150 (alice) Status:sold")
	alice.expect("Budget: 350 remaining of 500")
}

func TestUnknownCommandGetsHelp(t *testing.T) {
	addr, _ := newTestServer(t, time.Hour)

	c := dialServer(t, addr)
	c.join("alice", "500")

	c.send("dance")
	c.expect(dispatch.HelpText)
}
