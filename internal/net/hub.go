package net

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/swarmgrid/swarmcore/internal/world"
)

// HubConfig sizes the per-session queues and connection limits.
type HubConfig struct {
	CommandQueue    int
	SendQueue       int
	MaxMessageBytes int64
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
}

// Hub fans snapshots out to every connected session and funnels their
// commands into one queue for the game loop.
type Hub struct {
	cfg      HubConfig
	commands chan world.Command

	mu       sync.RWMutex
	sessions map[uint64]*Session
	nextID   atomic.Uint64

	latest atomic.Pointer[[]byte] // last encoded snapshot
	log    *zap.Logger
}

func NewHub(cfg HubConfig, log *zap.Logger) *Hub {
	if cfg.CommandQueue <= 0 {
		cfg.CommandQueue = 64
	}
	if cfg.SendQueue <= 0 {
		cfg.SendQueue = 8
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 60 * time.Second
	}
	return &Hub{
		cfg:      cfg,
		commands: make(chan world.Command, cfg.CommandQueue),
		sessions: make(map[uint64]*Session),
		log:      log,
	}
}

// Commands returns the queue the input system drains.
func (h *Hub) Commands() <-chan world.Command { return h.commands }

// Publish encodes snap once and queues it on every session. Called from the
// game loop; never blocks on a slow client.
func (h *Hub) Publish(snap world.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.log.Error("encode snapshot", zap.Error(err), zap.Uint64("tick", snap.Tick))
		return
	}
	h.latest.Store(&data)

	var slow []*Session
	h.mu.RLock()
	for _, sess := range h.sessions {
		if !sess.Send(data) {
			slow = append(slow, sess)
		}
	}
	h.mu.RUnlock()
	for _, sess := range slow {
		sess.log.Warn("send queue full, dropping slow client")
		sess.Close()
	}
}

// Latest returns the most recently published snapshot, or nil.
func (h *Hub) Latest() []byte {
	if p := h.latest.Load(); p != nil {
		return *p
	}
	return nil
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) add(sess *Session) {
	h.mu.Lock()
	h.sessions[sess.ID] = sess
	n := len(h.sessions)
	h.mu.Unlock()
	h.log.Info("client connected", zap.Uint64("session", sess.ID), zap.String("ip", sess.IP), zap.Int("clients", n))
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	_, ok := h.sessions[id]
	delete(h.sessions, id)
	n := len(h.sessions)
	h.mu.Unlock()
	if ok {
		h.log.Info("client disconnected", zap.Uint64("session", id), zap.Int("clients", n))
	}
}

// submit hands a command to the game loop, waiting while the queue is full
// unless done closes first.
func (h *Hub) submit(cmd world.Command, done <-chan struct{}) bool {
	select {
	case h.commands <- cmd:
		return true
	case <-done:
		return false
	}
}

// Close disconnects every session.
func (h *Hub) Close() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		sessions = append(sessions, sess)
	}
	h.mu.RUnlock()
	for _, sess := range sessions {
		sess.Close()
	}
}
