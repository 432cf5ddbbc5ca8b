package server

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport is one client connection speaking the line protocol.
// WriteLine is safe for concurrent use; ReadLine is not and belongs to
// the session's read loop alone.
type Transport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	SetReadDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

// tcpTransport frames lines over a raw TCP connection.
type tcpTransport struct {
	conn net.Conn
	r    *bufio.Reader

	writeMu sync.Mutex
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{
		conn: conn,
		r:    bufio.NewReader(conn),
	}
}

func (t *tcpTransport) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *tcpTransport) WriteLine(line string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err := t.conn.Write([]byte(line + "\n"))
	return err
}

func (t *tcpTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *tcpTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// wsTransport carries the same line protocol over WebSocket text
// messages, one line per message.
type wsTransport struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) ReadLine() (string, error) {
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (t *wsTransport) WriteLine(line string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (t *wsTransport) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

func (t *wsTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
