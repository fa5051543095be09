package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

const firebaseIssuerPrefix = "https://securetoken.google.com/"

// KeySource resolves the verification key for a parsed (unverified) token.
type KeySource interface {
	Key(ctx context.Context, token *jwt.Token) (any, error)
}

// errKeyUnavailable marks failures to obtain verification keys, as opposed
// to tokens that are themselves invalid.
var errKeyUnavailable = errors.New("verification keys unavailable")

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWTVerifier verifies signed ID tokens.
type JWTVerifier struct {
	keys   KeySource
	parser *jwt.Parser
}

// NewFirebaseVerifier verifies Firebase Auth ID tokens (RS256, issued for projectID).
func NewFirebaseVerifier(projectID string, keys KeySource) *JWTVerifier {
	return &JWTVerifier{
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(firebaseIssuerPrefix+projectID),
			jwt.WithAudience(projectID),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// NewHMACVerifier verifies HS256 tokens signed with secret. Empty issuer or
// audience disables that check.
func NewHMACVerifier(secret []byte, issuer, audience string) *JWTVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTVerifier{
		keys:   StaticKey(secret),
		parser: jwt.NewParser(opts...),
	}
}

// VerifyToken implements Verifier.
func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (*Identity, error) {
	var c claims
	_, err := v.parser.ParseWithClaims(rawToken, &c, func(t *jwt.Token) (any, error) {
		return v.keys.Key(ctx, t)
	})
	if err != nil {
		if errors.Is(err, errKeyUnavailable) {
			return nil, apperror.Wrap(apperror.KindServiceUnavailable, "Identity provider unavailable", err)
		}
		return nil, apperror.Wrap(apperror.KindUnauthorized, "Invalid or expired token", err)
	}

	if c.Subject == "" {
		return nil, apperror.Unauthorized("Token has no subject")
	}

	return &Identity{UID: c.Subject, Email: c.Email}, nil
}

// StaticKey is a KeySource returning the same key for every token.
type StaticKey []byte

// Key implements KeySource.
func (k StaticKey) Key(_ context.Context, _ *jwt.Token) (any, error) {
	if len(k) == 0 {
		return nil, fmt.Errorf("%w: empty secret", errKeyUnavailable)
	}
	return []byte(k), nil
}
