package server

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// WSHandler upgrades HTTP requests to WebSocket sessions speaking the
// same line protocol as the TCP listener.
func (s *Server) WSHandler() http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(newWSTransport(conn))
		}()
	})
}
