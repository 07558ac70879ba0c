package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 512
)

// subscriber is one websocket connection attached to a session
type subscriber struct {
	hub       *Hub
	conn      *websocket.Conn
	outbox    chan []byte
	sessionID string
}

func newSubscriber(h *Hub, sessionID string) *subscriber {
	return &subscriber{hub: h, sessionID: sessionID, outbox: make(chan []byte, outboxSize)}
}

// readLoop discards client input and keeps the read deadline moving on pongs.
// It detaches the subscriber when the connection drops.
func (s *subscriber) readLoop() {
	defer func() {
		s.hub.leave <- s
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.hub.log.WithError(err).WithField("session", s.sessionID).Warn("websocket read error")
			}
			return
		}
	}
}

// writeLoop writes one JSON document per text frame and pings on a timer
func (s *subscriber) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.outbox:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
