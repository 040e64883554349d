package server

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Listener accepts inbound TCP connections, spawns one Session per
// connection, and owns the Room's lifecycle. It tracks live sessions so
// shutdown can close them in a coordinated way.
type Listener struct {
	cfg  Config
	room *Room

	mu       sync.Mutex
	ln       net.Listener
	sessions map[*Session]struct{}

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewListener builds a listener and its room from cfg. Nothing runs until
// Start.
func NewListener(cfg Config) *Listener {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener{
		cfg:      cfg,
		room:     NewRoom(cfg),
		sessions: make(map[*Session]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Room exposes the shared room, mainly for inspection in tests.
func (l *Listener) Room() *Room { return l.room }

// Addr returns the bound address, or nil before Start.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Start binds the TCP socket, starts the room's broadcast consumer, and
// begins accepting connections in the background.
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.cfg.Addr())
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()

	l.room.Start()
	slog.Info("server listening",
		"addr", ln.Addr().String(),
		"room", l.cfg.RoomName,
		"maxUsers", l.cfg.MaxUsers)

	l.wg.Add(1)
	go l.acceptLoop(ln)
	return nil
}

func (l *Listener) acceptLoop(ln net.Listener) {
	defer l.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if l.ctx.Err() != nil || isExpectedCloseError(err) {
				return
			}
			slog.Warn("accept failed", "error", err)
			continue
		}

		slog.Info("client connected", "addr", conn.RemoteAddr().String())
		session := NewSession(conn, l.room, l.cfg)
		l.track(session)

		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			session.Run()
			l.untrack(session)
			slog.Info("client disconnected", "addr", session.addr)
		}()
	}
}

func (l *Listener) track(s *Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions[s] = struct{}{}
}

func (l *Listener) untrack(s *Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, s)
}

// Shutdown stops accepting, closes every tracked session concurrently
// (best-effort), then stops the room's broadcast consumer. It waits for all
// goroutines up to the timeout.
func (l *Listener) Shutdown(timeout time.Duration) error {
	slog.Info("shutting down server")
	l.cancel()

	l.mu.Lock()
	ln := l.ln
	sessions := make([]*Session, 0, len(l.sessions))
	for s := range l.sessions {
		sessions = append(sessions, s)
	}
	l.mu.Unlock()

	if ln != nil {
		if err := ln.Close(); err != nil && !isExpectedCloseError(err) {
			slog.Warn("error closing listener", "error", err)
		}
	}

	for _, s := range sessions {
		go s.Close()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-time.After(timeout):
		slog.Warn("shutdown timeout reached, some connections may still be open")
		err = context.DeadlineExceeded
	}

	l.room.Stop()
	slog.Info("server stopped")
	return err
}
