package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseSide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Side
		ok   bool
	}{
		{"B", Buy, true},
		{"S", Sell, true},
		{"X", 0, false},
		{"", 0, false},
		{"BB", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseSide(tc.raw)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseSide(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Expiry
		ok   bool
	}{
		{"GTC", GTC, true},
		{"GFD", GFD, true},
		{"IOC", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseExpiry(tc.raw)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseExpiry(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestOrderFormNotional(t *testing.T) {
	t.Parallel()

	f := OrderForm{Symbol: "BBCA", Side: "B", Price: 9000, Lot: 1, Expiry: "GTC"}
	if got, want := f.Notional(), int64(900000); got != want {
		t.Errorf("Notional() = %d, want %d", got, want)
	}
}

func TestSideJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		side Side
		want string
	}{
		{Buy, `"B"`},
		{Sell, `"S"`},
	}

	for _, tc := range cases {
		body, err := json.Marshal(tc.side)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", tc.side, err)
		}
		if got := string(body); got != tc.want {
			t.Errorf("Marshal(%v) = %s, want %s", tc.side, got, tc.want)
		}

		var got Side
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", body, err)
		}
		if got != tc.side {
			t.Errorf("Unmarshal(%s) = %v, want %v", body, got, tc.side)
		}
	}
}

func TestSideMarshalRejectsInvalidValue(t *testing.T) {
	t.Parallel()

	if _, err := json.Marshal(Side('Z')); err == nil {
		t.Error("Marshal(invalid side): want error, got nil")
	}
}

func TestOrderJSONRoundTrip(t *testing.T) {
	t.Parallel()

	order := Order{
		OrderID:       7,
		ProductSymbol: "BBCA",
		ProductName:   "Bank Central Asia",
		Side:          Sell,
		Price:         9000,
		Lot:           1,
		Expiry:        GTC,
		CreatedAt:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		UserID:        42,
		ProductID:     7,
	}

	body, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(body), `"side":"S"`) {
		t.Errorf("Marshal(Order) = %s, want it to contain \"side\":\"S\"", body)
	}

	var got Order
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Side != Sell {
		t.Errorf("round-tripped Side = %v, want %v", got.Side, Sell)
	}
	if !got.CreatedAt.Equal(order.CreatedAt) {
		t.Errorf("round-tripped CreatedAt = %v, want %v", got.CreatedAt, order.CreatedAt)
	}
}

func TestEnvelopeJSON(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(OK("7"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(body), `{"status":"ok","message":"7"}`; got != want {
		t.Errorf("OK envelope JSON = %s, want %s", got, want)
	}

	body, err = json.Marshal(ErrEnvelope("2026-08-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(body), `{"status":"error","message":"2026-08-01T00:00:00Z"}`; got != want {
		t.Errorf("ErrEnvelope JSON = %s, want %s", got, want)
	}
}
