package net

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/swarmgrid/swarmcore/internal/world"
)

// clientMessage is one frame from a client. Only "input" carries a command.
type clientMessage struct {
	Type string `json:"type"`
	world.Command
}

// Session represents a single websocket client. Network I/O runs in
// dedicated goroutines; game state is never touched here.
type Session struct {
	ID uint64
	IP string

	conn *websocket.Conn
	hub  *Hub
	out  chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func newSession(conn *websocket.Conn, id uint64, hub *Hub, log *zap.Logger) *Session {
	return &Session{
		ID:      id,
		IP:      conn.RemoteAddr().String(),
		conn:    conn,
		hub:     hub,
		out:     make(chan []byte, hub.cfg.SendQueue),
		closeCh: make(chan struct{}),
		log:     log.With(zap.Uint64("session", id)),
	}
}

// Start queues the latest snapshot, registers the session and launches the reader and writer goroutines.
func (s *Session) Start() {
	if data := s.hub.Latest(); data != nil {
		s.out <- data
	}
	s.hub.add(s)
	go s.readLoop()
	go s.writeLoop()
}

// Send queues an encoded snapshot without blocking. It reports false when
// the queue is full; the caller should then drop the client.
func (s *Session) Send(data []byte) bool {
	if s.closed.Load() {
		return true
	}
	select {
	case s.out <- data:
		return true
	default:
		return false
	}
}

// Close shuts the session down once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
		s.hub.remove(s.ID)
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop decodes client frames and pushes their commands onto the hub
// queue for the game loop.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.hub.cfg.MaxMessageBytes)
	s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.ReadTimeout))
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.ReadTimeout))

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Debug("discarding malformed message", zap.Error(err))
			continue
		}
		switch msg.Type {
		case "input":
			if !s.hub.submit(msg.Command, s.closeCh) {
				return
			}
		case "ping":
		default:
			s.log.Debug("unknown message type", zap.String("type", msg.Type))
		}
	}
}

// writeLoop writes queued snapshots and keeps the connection alive with
// pings well inside the client's read timeout.
func (s *Session) writeLoop() {
	defer s.Close()

	ping := time.NewTicker(s.hub.cfg.ReadTimeout * 9 / 10)
	defer ping.Stop()

	for {
		select {
		case data := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(s.hub.cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
