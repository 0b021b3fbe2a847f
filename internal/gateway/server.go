package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/fireorder/gateway/internal/authn"
	"github.com/fireorder/gateway/internal/orderengine"
	"github.com/fireorder/gateway/internal/session"
)

// Config holds the TCP-level settings the harness needs.
type Config struct {
	Addr             string
	ReadTimeout      time.Duration
	IdleFrameTimeout time.Duration
}

// Server is the TCP accept loop: it binds a listener, hands each
// accepted connection to a new session, and drains in-flight
// connections on shutdown before returning.
type Server struct {
	cfg      Config
	verifier *authn.Verifier
	router   *Router
	engine   *orderengine.Engine
	logger   *slog.Logger

	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer builds a Server.
func NewServer(cfg Config, verifier *authn.Verifier, router *Router, engine *orderengine.Engine, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		verifier: verifier,
		router:   router,
		engine:   engine,
		logger:   logger.With("component", "gateway"),
	}
}

// ListenAndServe binds the listener and accepts connections until ctx
// is canceled. It returns nil on a clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln
	s.logger.Info("gateway listening", "addr", s.cfg.Addr)

	go func() {
		<-ctx.Done()
		s.logger.Info("closing listener")
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				var netErr net.Error
				if errors.As(err, &netErr) && !netErr.Timeout() {
					s.logger.Error("accept error", "error", err)
				}
				continue
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess := session.New(conn, s.verifier, s.router, s.engine, s.logger, s.cfg.ReadTimeout, s.cfg.IdleFrameTimeout)
			sess.Run()
		}()
	}
}

// Wait blocks until every in-flight session has finished, draining the
// server's connections after the listener has been closed.
func (s *Server) Wait() {
	s.wg.Wait()
}
