package authn

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/internal/protocol"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generateKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	pubBytes, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}
	pemBlock := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	return priv, string(pemBlock)
}

func signToken(t *testing.T, priv *rsa.PrivateKey, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(priv)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func TestVerifierAcceptsValidToken(t *testing.T) {
	t.Parallel()

	priv, pubPEM := generateKeyPair(t)
	v, err := NewVerifier(pubPEM, testLogger())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	token := signToken(t, priv, "42", time.Now().Add(time.Hour))
	userID, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestVerifierRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	priv, pubPEM := generateKeyPair(t)
	v, err := NewVerifier(pubPEM, testLogger())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	token := signToken(t, priv, "42", time.Now().Add(-time.Second))
	_, err = v.Verify(token)
	if err == nil {
		t.Fatal("Verify(expired): want error, got nil")
	}
	var ae *apierr.Error
	if !asApierr(err, &ae) || ae.Kind != apierr.Unauthorized {
		t.Errorf("Verify(expired) error = %v, want apierr.Unauthorized", err)
	}
}

func TestVerifierRejectsWrongKey(t *testing.T) {
	t.Parallel()

	_, pubPEM := generateKeyPair(t)
	otherPriv, _ := generateKeyPair(t)
	v, err := NewVerifier(pubPEM, testLogger())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	token := signToken(t, otherPriv, "42", time.Now().Add(time.Hour))
	if _, err := v.Verify(token); err == nil {
		t.Fatal("Verify(wrong key): want error, got nil")
	}
}

func TestVerifierRejectsNonIntegerSubject(t *testing.T) {
	t.Parallel()

	priv, pubPEM := generateKeyPair(t)
	v, err := NewVerifier(pubPEM, testLogger())
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	token := signToken(t, priv, "not-a-number", time.Now().Add(time.Hour))
	if _, err := v.Verify(token); err == nil {
		t.Fatal("Verify(non-integer subject): want error, got nil")
	}
}

func TestNewVerifierNormalizesEscapedNewlines(t *testing.T) {
	t.Parallel()

	_, pubPEM := generateKeyPair(t)
	escaped := escapeNewlines(pubPEM)
	if _, err := NewVerifier(escaped, testLogger()); err != nil {
		t.Fatalf("NewVerifier(escaped PEM): %v", err)
	}
}

func TestExtractTokenFromQueryForWebSocketPath(t *testing.T) {
	t.Parallel()

	req := &protocol.Request{
		Path:   "/order/ws",
		Params: map[string]string{"token": "qtoken"},
	}
	token, ok := ExtractToken(req)
	if !ok || token != "qtoken" {
		t.Errorf("ExtractToken() = (%q, %v), want (qtoken, true)", token, ok)
	}
}

func TestExtractTokenFromBearerHeader(t *testing.T) {
	t.Parallel()

	req := &protocol.Request{
		Path:    "/order",
		Headers: map[string]string{"authorization": "Bearer htoken"},
	}
	token, ok := ExtractToken(req)
	if !ok || token != "htoken" {
		t.Errorf("ExtractToken() = (%q, %v), want (htoken, true)", token, ok)
	}
}

func TestExtractTokenRejectsMalformedBearer(t *testing.T) {
	t.Parallel()

	req := &protocol.Request{
		Path:    "/order",
		Headers: map[string]string{"authorization": "Basic htoken"},
	}
	if _, ok := ExtractToken(req); ok {
		t.Error("ExtractToken(Basic): ok=true, want false")
	}
}

func asApierr(err error, target **apierr.Error) bool {
	ae, ok := err.(*apierr.Error)
	if !ok {
		return false
	}
	*target = ae
	return true
}

func escapeNewlines(pemStr string) string {
	out := make([]byte, 0, len(pemStr))
	for i := 0; i < len(pemStr); i++ {
		if pemStr[i] == '\n' {
			out = append(out, '\\', 'n')
			continue
		}
		out = append(out, pemStr[i])
	}
	return string(out)
}
