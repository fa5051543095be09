// Package identity turns a raw Authorization header into a verified subject.
package identity

import (
	"context"
	"strings"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

const bearerPrefix = "bearer "

// ErrBearerNotFound is returned when the Authorization header carries no bearer token.
var ErrBearerNotFound = apperror.BadRequest("Bearer token not found")

// Identity is the verified caller. UID is the ownership key everywhere downstream.
type Identity struct {
	UID   string
	Email string
}

// Verifier checks a raw bearer token with the identity provider.
type Verifier interface {
	VerifyToken(ctx context.Context, rawToken string) (*Identity, error)
}

// ExtractBearer returns the token following a case-insensitive "Bearer " prefix.
func ExtractBearer(header string) (string, error) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrBearerNotFound
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrBearerNotFound
	}
	return token, nil
}

// IsBearer reports whether header has the syntactic shape of a bearer
// credential. It does not verify anything.
func IsBearer(header string) bool {
	_, err := ExtractBearer(header)
	return err == nil
}

// Verify extracts the bearer token from header and verifies it with v.
// It has no side effects beyond the provider call.
func Verify(ctx context.Context, v Verifier, header string) (*Identity, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		return nil, err
	}
	return v.VerifyToken(ctx, token)
}
