package net

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server serves the websocket endpoint and the read-only HTTP endpoints.
type Server struct {
	listener net.Listener
	http     *http.Server
	hub      *Hub
	log      *zap.Logger
}

func NewServer(bindAddr string, hub *Hub, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener: ln,
		hub:      hub,
		log:      log,
	}
	s.http = &http.Server{Handler: NewRouter(hub, log)}
	return s, nil
}

// NewRouter builds the HTTP routes:
//
//	GET /ws        websocket: snapshots out, {"type":"input",...} commands in
//	GET /snapshot  latest snapshot as JSON
//	GET /healthz   liveness and client count
func NewRouter(hub *Hub, log *zap.Logger) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Debug("websocket upgrade failed", zap.Error(err), zap.String("ip", req.RemoteAddr))
			return
		}
		newSession(conn, hub.nextID.Add(1), hub, log).Start()
	}).Methods(http.MethodGet)

	r.HandleFunc("/snapshot", func(w http.ResponseWriter, _ *http.Request) {
		data := hub.Latest()
		if data == nil {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": hub.Count()})
	}).Methods(http.MethodGet)

	httpLog := zap.NewStdLog(log.Named("http"))
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(httpLog),
		handlers.PrintRecoveryStack(true),
	)(handlers.CombinedLoggingHandler(httpLog.Writer(), r))
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.hub.Close()
		s.http.Close()
	}()
	s.log.Info("listening", zap.String("addr", s.Addr().String()))
	if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
