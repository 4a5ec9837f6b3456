// Package server owns the TCP listener, the connection registry and the
// shutdown sequence.  The wire protocol itself lives in conn.go.
package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/handler"
)

// Server accepts client connections and feeds their requests to the
// command registry.  It tracks every live connection so Shutdown can cut
// them all instead of waiting for idle clients to hang up.
type Server struct {
	registry *handler.Registry
	log      *zap.SugaredLogger

	listener net.Listener

	mu    sync.Mutex
	conns map[net.Conn]struct{}

	wg       sync.WaitGroup
	shutdown sync.Once
	closed   chan struct{}
}

func New(registry *handler.Registry, log *zap.SugaredLogger) *Server {
	return &Server{
		registry: registry,
		log:      log,
		conns:    make(map[net.Conn]struct{}),
		closed:   make(chan struct{}),
	}
}

// Listen binds the TCP address.  Kept separate from Serve so the caller
// can fail fast on a bad address before wiring signal handling.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.Infow("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address.  Useful when listening on port 0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the accept loop until Shutdown closes the listener.  It
// returns nil on orderly shutdown.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closed:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConn(conn)
		}()
	}
}

func (s *Server) track(c net.Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	c.Close()
}

// Shutdown stops accepting, closes every live connection and waits for
// their goroutines.  Safe to call from multiple goroutines; only the
// first call does the work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdown.Do(func() {
		close(s.closed)
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Lock()
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
