// Package session implements the per-connection loop: a single bounded
// read of the request line and headers, authentication, and then either
// a single HTTP-style response or, for a WebSocket upgrade, the
// handshake followed by a loop of framed order submissions.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/fireorder/gateway/internal/authn"
	"github.com/fireorder/gateway/internal/orderengine"
	"github.com/fireorder/gateway/internal/protocol"
	"github.com/fireorder/gateway/pkg/types"
)

// Dispatcher routes an authenticated, non-WebSocket request to its
// handler. internal/gateway.Router satisfies this.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *protocol.Request, userID int32) protocol.Response
}

// Session owns one accepted connection end to end.
type Session struct {
	conn             net.Conn
	verifier         *authn.Verifier
	router           Dispatcher
	engine           *orderengine.Engine
	logger           *slog.Logger
	readTimeout      time.Duration
	idleFrameTimeout time.Duration
}

// New builds a Session for a freshly accepted connection.
func New(conn net.Conn, verifier *authn.Verifier, router Dispatcher, engine *orderengine.Engine, logger *slog.Logger, readTimeout, idleFrameTimeout time.Duration) *Session {
	return &Session{
		conn:             conn,
		verifier:         verifier,
		router:           router,
		engine:           engine,
		logger:           logger.With("component", "session", "conn_id", uuid.NewString()),
		readTimeout:      readTimeout,
		idleFrameTimeout: idleFrameTimeout,
	}
}

// Run drives the session to completion, always closing the connection
// on the way out regardless of which step failed.
func (s *Session) Run() {
	defer s.conn.Close()

	if s.readTimeout > 0 {
		s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}

	buf := make([]byte, protocol.MaxRequestSize)
	n, err := s.conn.Read(buf)
	if err != nil {
		s.logger.Debug("initial read failed", "error", err)
		return
	}
	if n == protocol.MaxRequestSize {
		s.conn.Write(protocol.BadRequestResponse("Request too large").Bytes())
		return
	}

	req, err := protocol.ParseRequest(buf[:n])
	if err != nil {
		s.conn.Write(protocol.BadRequestResponse(err.Error()).Bytes())
		return
	}

	userID, err := s.verifier.Authenticate(req)
	if err != nil {
		s.conn.Write(protocol.UnauthorizedResponse().Bytes())
		return
	}
	s.logger = s.logger.With("user_id", userID)

	if req.Method == protocol.MethodGET && req.Path == "/order/ws" {
		s.runWebSocket(req, userID)
		return
	}

	resp := s.router.Dispatch(context.Background(), req, userID)
	s.conn.Write(resp.Bytes())
}

// runWebSocket performs the handshake then enters the per-frame order
// loop. The key is extracted even when the Upgrade header is missing or
// malformed: a missing key degrades to an empty accept computation
// rather than rejecting the upgrade outright.
func (s *Session) runWebSocket(req *protocol.Request, userID int32) {
	key, _ := req.Header("Sec-WebSocket-Key")
	if _, err := s.conn.Write(protocol.HandshakeResponse(key)); err != nil {
		s.logger.Debug("handshake write failed", "error", err)
		return
	}
	s.logger.Debug("websocket handshake complete")

	buf := make([]byte, protocol.MaxRequestSize)
	for {
		if s.idleFrameTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.idleFrameTimeout))
		}
		n, err := s.conn.Read(buf)
		if err != nil || n == 0 {
			s.logger.Debug("websocket loop ending", "error", err)
			return
		}

		message, ok := protocol.DecodeFrame(buf[:n])
		if !ok {
			s.logger.Debug("websocket loop ending: control/unsupported frame")
			return
		}

		reply := s.handleOrderMessage(context.Background(), message, userID)
		if _, err := s.conn.Write(protocol.EncodeFrame(reply)); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Session) handleOrderMessage(ctx context.Context, message string, userID int32) string {
	var form types.OrderForm
	if err := json.Unmarshal([]byte(message), &form); err != nil {
		return errorEnvelope()
	}

	reply, err := s.engine.HandleOrder(ctx, form, userID)
	if err != nil {
		s.logger.Debug("order rejected", "error", err)
		return errorEnvelope()
	}
	return reply
}

// errorEnvelope renders the WebSocket order path's uniform failure
// reply: the caller learns only that the order was rejected and when,
// never why.
func errorEnvelope() string {
	body, _ := json.Marshal(types.ErrEnvelope(time.Now().UTC().Format(time.RFC3339)))
	return string(body)
}
