// Package types holds the domain and wire types shared by every component
// of the order gateway: products, accounts, portfolios, orders, and the
// JSON envelope every response (WebSocket or HTTP) is wrapped in.
package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LotSize is the number of underlying shares represented by one lot.
// Notional and invested-value figures are always expressed in minor
// currency units (price * lot * LotSize).
const LotSize = 100

// Side is the direction of an order.
type Side byte

const (
	Buy  Side = 'B'
	Sell Side = 'S'
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "B"
	case Sell:
		return "S"
	default:
		return "?"
	}
}

// ParseSide validates a single-character side code.
func ParseSide(raw string) (Side, bool) {
	if len(raw) != 1 {
		return 0, false
	}
	switch Side(raw[0]) {
	case Buy:
		return Buy, true
	case Sell:
		return Sell, true
	default:
		return 0, false
	}
}

// MarshalText renders Side as its one-character wire form ("B"/"S") so
// that encoding/json encodes it as a JSON string instead of a byte.
func (s Side) MarshalText() ([]byte, error) {
	if s != Buy && s != Sell {
		return nil, fmt.Errorf("invalid side: %v", byte(s))
	}
	return []byte{byte(s)}, nil
}

// UnmarshalText parses Side back out of its one-character wire form.
func (s *Side) UnmarshalText(text []byte) error {
	parsed, ok := ParseSide(string(text))
	if !ok {
		return fmt.Errorf("invalid side: %q", text)
	}
	*s = parsed
	return nil
}

// Expiry is an order's time-in-force.
type Expiry string

const (
	GTC Expiry = "GTC"
	GFD Expiry = "GFD"
)

// ParseExpiry validates a time-in-force string.
func ParseExpiry(raw string) (Expiry, bool) {
	switch Expiry(raw) {
	case GTC:
		return GTC, true
	case GFD:
		return GFD, true
	default:
		return "", false
	}
}

// Product is a tradable instrument.
type Product struct {
	ProductID int32  `json:"product_id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
}

// Account is a user's cash position.
type Account struct {
	AccountID     int32 `json:"account_id"`
	UserID        int32 `json:"user_id"`
	Balance       int64 `json:"balance"`
	InvestedValue int64 `json:"invested_value"`
}

// AccountSnapshot is the response shape for GET /account: a trimmed view
// of Account that never leaks internal identifiers.
type AccountSnapshot struct {
	Balance       int64 `json:"balance"`
	InvestedValue int64 `json:"invested_value"`
}

// Portfolio is a user's holding in a single product. The tuple
// (UserID, ProductSymbol) is unique.
type Portfolio struct {
	PortfolioID   int32           `json:"portfolio_id"`
	UserID        int32           `json:"user_id"`
	ProductID     int32           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductSymbol string          `json:"product_symbol"`
	Lot           int32           `json:"lot"`
	InvestedValue int64           `json:"invested_value"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
}

// Order is an append-only ledger entry.
type Order struct {
	OrderID       int32     `json:"order_id"`
	ProductSymbol string    `json:"product_symbol"`
	ProductName   string    `json:"product_name"`
	Side          Side      `json:"side"`
	Price         int32     `json:"price"`
	Lot           int32     `json:"lot"`
	Expiry        Expiry    `json:"expiry"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        int32     `json:"user_id"`
	ProductID     int32     `json:"product_id"`
}

// OrderForm is the client-submitted order payload, arriving either as a
// WebSocket text frame or a POST /order body. Any extra "user_id" field
// present in the JSON is ignored by json.Unmarshal and never read: the
// authenticated subject is always the order's user.
type OrderForm struct {
	Symbol string `json:"symbol"`
	Side   string `json:"side"`
	Price  int32  `json:"price"`
	Lot    int32  `json:"lot"`
	Expiry string `json:"expiry"`
}

// Notional returns price * lot * LotSize, the minor-unit value of the order.
func (f OrderForm) Notional() int64 {
	return int64(f.Price) * int64(f.Lot) * LotSize
}

// Envelope is the uniform {"status", "message"} response shape used by
// every WebSocket reply and every successful HTTP response body.
type Envelope struct {
	Status  string `json:"status"`
	Message any    `json:"message"`
}

// OK wraps a successful result.
func OK(message any) Envelope {
	return Envelope{Status: "ok", Message: message}
}

// ErrEnvelope wraps an error result. For the WebSocket order path, message
// is an ISO-8601 UTC timestamp rather than a descriptive error: the caller
// only learns that the order was rejected, not why.
func ErrEnvelope(message any) Envelope {
	return Envelope{Status: "error", Message: message}
}
