package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/klondike/game/engine"
)

// Events pushed to clients
const (
	EventStateUpdate = "state_update"
	EventVictory     = "victory"
)

const (
	publishBuffer = 64
	outboxSize    = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Table pages may be served from another origin (ngrok, local dev)
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope written to every client
type Message struct {
	SessionID string           `json:"session_id"`
	GameState *engine.Snapshot `json:"game_state,omitempty"`
	Event     string           `json:"event,omitempty"`
	Data      interface{}      `json:"data,omitempty"`
}

// VictoryData is the payload of a victory event
type VictoryData struct {
	GameID string `json:"game_id"`
}

type frame struct {
	sessionID string
	payload   []byte
}

type countQuery struct {
	sessionID string
	reply     chan int
}

// Hub fans session updates out to the websocket clients watching that
// session. rooms is only touched by the Run goroutine.
type Hub struct {
	rooms map[string]map[*subscriber]struct{}

	publish chan frame
	join    chan *subscriber
	leave   chan *subscriber
	count   chan countQuery

	log logrus.FieldLogger
}

// NewHub creates a hub that logs to the standard logrus logger
func NewHub() *Hub {
	return NewHubWithLogger(logrus.StandardLogger())
}

// NewHubWithLogger creates a hub that logs to log
func NewHubWithLogger(log logrus.FieldLogger) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*subscriber]struct{}),
		publish: make(chan frame, publishBuffer),
		join:    make(chan *subscriber),
		leave:   make(chan *subscriber),
		count:   make(chan countQuery),
		log:     log,
	}
}

// Run processes joins, leaves and broadcasts until the process exits
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.join:
			h.add(sub)
		case sub := <-h.leave:
			h.remove(sub)
		case f := <-h.publish:
			h.deliver(f)
		case q := <-h.count:
			q.reply <- len(h.rooms[q.sessionID])
		}
	}
}

// ServeWS upgrades the request and attaches the connection to sessionID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sub := newSubscriber(h, sessionID)
	sub.conn = conn
	h.join <- sub

	go sub.writeLoop()
	go sub.readLoop()
}

// ClientCount returns the number of clients watching a session. Requires Run.
func (h *Hub) ClientCount(sessionID string) int {
	reply := make(chan int, 1)
	h.count <- countQuery{sessionID: sessionID, reply: reply}
	return <-reply
}

// BroadcastToSession pushes a fresh snapshot to the session's clients
func (h *Hub) BroadcastToSession(sessionID string, state *engine.Snapshot) {
	h.send(&Message{SessionID: sessionID, GameState: state, Event: EventStateUpdate})
}

// BroadcastEvent pushes a named event with an arbitrary payload
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.send(&Message{SessionID: sessionID, Event: event, Data: data})
}

// NotifyWin announces a won game to the session's clients
func (h *Hub) NotifyWin(sessionID, gameID string) {
	h.log.WithFields(logrus.Fields{"session": sessionID, "game": gameID}).Info("announcing victory")
	h.BroadcastEvent(sessionID, EventVictory, VictoryData{GameID: gameID})
}

// send encodes once on the caller's goroutine; the loop only copies bytes
func (h *Hub) send(m *Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		h.log.WithError(err).WithField("session", m.SessionID).Error("failed to encode broadcast")
		return
	}
	h.publish <- frame{sessionID: m.SessionID, payload: payload}
}

func (h *Hub) add(sub *subscriber) {
	room := h.rooms[sub.sessionID]
	if room == nil {
		room = make(map[*subscriber]struct{})
		h.rooms[sub.sessionID] = room
	}
	room[sub] = struct{}{}

	h.log.WithFields(logrus.Fields{"session": sub.sessionID, "clients": len(room)}).Debug("websocket client joined")
}

func (h *Hub) remove(sub *subscriber) {
	room := h.rooms[sub.sessionID]
	if _, ok := room[sub]; !ok {
		return
	}
	delete(room, sub)
	close(sub.outbox)
	if len(room) == 0 {
		delete(h.rooms, sub.sessionID)
	}

	h.log.WithFields(logrus.Fields{"session": sub.sessionID, "clients": len(room)}).Debug("websocket client left")
}

func (h *Hub) deliver(f frame) {
	for sub := range h.rooms[f.sessionID] {
		select {
		case sub.outbox <- f.payload:
		default:
			h.log.WithField("session", f.sessionID).Warn("dropping websocket client with full outbox")
			h.remove(sub)
		}
	}
}
