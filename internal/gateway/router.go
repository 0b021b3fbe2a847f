// Package gateway is the router and TCP server harness: it accepts
// connections, hands each one to a session, and renders the non-WebSocket
// HTTP routes (GET /order, GET /portfolio, GET /account, POST /order).
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/internal/orderengine"
	"github.com/fireorder/gateway/internal/protocol"
	"github.com/fireorder/gateway/pkg/types"
)

// queryRepo is the slice of internal/store.Store the read-only query
// handlers need. Narrowing to an interface lets those handlers be
// tested against a stub without a live Postgres connection.
type queryRepo interface {
	OrdersByUserID(ctx context.Context, userID int32) ([]types.Order, error)
	PortfoliosByUserID(ctx context.Context, userID int32) ([]types.Portfolio, error)
	AccountByUserID(ctx context.Context, userID int32) (*types.Account, error)
}

// Router dispatches a parsed, authenticated request to its handler.
// WebSocket upgrades are intercepted by the session loop before it ever
// reaches the Router.
type Router struct {
	engine *orderengine.Engine
	store  queryRepo
	logger *slog.Logger
}

// NewRouter builds a Router.
func NewRouter(engine *orderengine.Engine, st queryRepo, logger *slog.Logger) *Router {
	return &Router{engine: engine, store: st, logger: logger.With("component", "router")}
}

// Dispatch routes req to its handler and renders the response.
func (r *Router) Dispatch(ctx context.Context, req *protocol.Request, userID int32) protocol.Response {
	switch {
	case req.Method == protocol.MethodPOST && req.Path == "/order":
		return r.handleCreateOrder(ctx, req, userID)
	case req.Method == protocol.MethodGET && req.Path == "/order":
		return r.handleListOrders(ctx, userID)
	case req.Method == protocol.MethodGET && req.Path == "/portfolio":
		return r.handleListPortfolios(ctx, userID)
	case req.Method == protocol.MethodGET && req.Path == "/account":
		return r.handleAccount(ctx, userID)
	default:
		return protocol.NotFoundResponse()
	}
}

// handleCreateOrder is the single-shot, non-WebSocket order submission
// path. Unlike the WebSocket path it reports errors by HTTP status
// rather than wrapping them in the {"status":"error"} envelope. Any
// "user_id" present in the body is ignored: the order always belongs to
// the authenticated caller.
func (r *Router) handleCreateOrder(ctx context.Context, req *protocol.Request, userID int32) protocol.Response {
	var form types.OrderForm
	if err := json.Unmarshal(req.Body, &form); err != nil {
		return protocol.BadRequestResponse("")
	}

	reply, err := r.engine.HandleOrder(ctx, form, userID)
	if err != nil {
		return errToResponse(err)
	}
	return protocol.RawJSON(reply)
}

// handleListOrders, handleListPortfolios, and handleAccount all return
// 401 on any repository error, regardless of its kind: a missing
// account row and a database outage look identical to the caller here,
// the same as the three read-only query handlers they mirror.
func (r *Router) handleListOrders(ctx context.Context, userID int32) protocol.Response {
	orders, err := r.store.OrdersByUserID(ctx, userID)
	if err != nil {
		r.logger.Debug("list orders failed", "error", err)
		return protocol.UnauthorizedResponse()
	}
	return protocol.JSONOK(orders)
}

func (r *Router) handleListPortfolios(ctx context.Context, userID int32) protocol.Response {
	portfolios, err := r.store.PortfoliosByUserID(ctx, userID)
	if err != nil {
		r.logger.Debug("list portfolios failed", "error", err)
		return protocol.UnauthorizedResponse()
	}
	return protocol.JSONOK(portfolios)
}

func (r *Router) handleAccount(ctx context.Context, userID int32) protocol.Response {
	account, err := r.store.AccountByUserID(ctx, userID)
	if err != nil {
		r.logger.Debug("account lookup failed", "error", err)
		return protocol.UnauthorizedResponse()
	}
	return protocol.JSONOK(types.AccountSnapshot{
		Balance:       account.Balance,
		InvestedValue: account.InvestedValue,
	})
}

// errToResponse maps an apierr.Kind to the HTTP status it carries:
// BadRequest/Serde/NotEnoughFunds -> 400, Unauthorized -> 401,
// NotFound -> 404, Cache/Database and anything unrecognized -> 500.
func errToResponse(err error) protocol.Response {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apierr.BadRequest, apierr.Serde, apierr.NotEnoughFunds:
			return protocol.BadRequestResponse(ae.Msg)
		case apierr.Unauthorized:
			return protocol.UnauthorizedResponse()
		case apierr.NotFound:
			return protocol.NotFoundResponse()
		default:
			return protocol.InternalErrorResponse(ae.Msg)
		}
	}
	return protocol.InternalErrorResponse(err.Error())
}
