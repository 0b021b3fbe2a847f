// Package authn extracts bearer credentials from a parsed request and
// verifies them as an RS256 JWT.
package authn

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/internal/protocol"
)

// Verifier validates bearer tokens against a single RS256 public key.
type Verifier struct {
	publicKey *rsa.PublicKey
	logger    *slog.Logger
}

// NewVerifier loads a PEM-encoded RSA public key. Literal "\n" sequences
// are normalized to real newlines first, since the key typically arrives
// through an environment variable that cannot hold raw newlines.
func NewVerifier(pemKey string, logger *slog.Logger) (*Verifier, error) {
	normalized := strings.ReplaceAll(pemKey, `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(normalized))
	if err != nil {
		return nil, fmt.Errorf("parse jwt public key: %w", err)
	}
	return &Verifier{
		publicKey: key,
		logger:    logger.With("component", "authn"),
	}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Verify parses and validates tokenString, returning the subject as a
// user ID. Expiry is enforced; audience is not checked, matching the
// issuer's token shape.
func (v *Verifier) Verify(tokenString string) (int32, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.publicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil || !token.Valid {
		v.logger.Debug("token rejected", "error", err)
		return 0, apierr.New(apierr.Unauthorized, "invalid token")
	}

	c, ok := token.Claims.(*claims)
	if !ok {
		return 0, apierr.New(apierr.Unauthorized, "invalid claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 32)
	if err != nil {
		return 0, apierr.New(apierr.Unauthorized, "subject is not a user id")
	}
	return int32(userID), nil
}

// ExtractToken pulls the bearer token out of req, per route: WebSocket
// upgrade requests (paths containing "ws") carry it as a "token" query
// parameter since browsers cannot set arbitrary headers during the
// upgrade handshake; every other route requires an "Authorization:
// Bearer <token>" header.
func ExtractToken(req *protocol.Request) (string, bool) {
	if strings.Contains(req.Path, "ws") {
		token, ok := req.Params["token"]
		return token, ok
	}

	header, ok := req.Header("Authorization")
	if !ok {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Authenticate extracts and verifies the token carried by req.
func (v *Verifier) Authenticate(req *protocol.Request) (int32, error) {
	token, ok := ExtractToken(req)
	if !ok {
		return 0, apierr.New(apierr.Unauthorized, "missing token")
	}
	return v.Verify(token)
}
