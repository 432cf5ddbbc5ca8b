// auctionctl is an interactive terminal client for auctiond.
// Usage: go run ./cmd/auctionctl --addr localhost:8080
//
// Type commands after the handshake; "quit" disconnects.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "auction server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s\n", *addr)

	// Server lines straight to the terminal. EOF means the server hung
	// up (or dropped us for overbidding).
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := io.Copy(os.Stdout, conn); err != nil && err != io.EOF {
			fmt.Fprintf(os.Stderr, "read: %v\n", err)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "quit" {
			break
		}
		if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
			break
		}
		select {
		case <-done:
			fmt.Println("disconnected by server")
			return
		default:
		}
	}
}
