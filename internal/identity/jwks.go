package identity

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/sync/singleflight"
)

// GoogleSecureTokenJWKSURL publishes the key set that signs Firebase ID tokens.
const GoogleSecureTokenJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

const (
	defaultRefreshInterval = time.Hour
	defaultFailureBackoff  = 30 * time.Second
	fetchTimeout           = 10 * time.Second
)

// JWKSource resolves RS256 verification keys from a JSON Web Key Set.
//
// Once a set is loaded, lookups never wait on the network. An expired set
// keeps being served while a single shared fetch replaces it. A failed fetch
// is not retried until the backoff elapses.
type JWKSource struct {
	url     string
	client  *http.Client
	refresh time.Duration
	backoff time.Duration
	now     func() time.Time

	current atomic.Pointer[keySet]
	fetches singleflight.Group

	mu       sync.Mutex
	failedAt time.Time
	lastErr  error
}

type keySet struct {
	set     jwk.Set
	expires time.Time
}

// JWKOption configures a JWKSource.
type JWKOption func(*JWKSource)

// WithRefreshInterval sets how long a fetched key set is considered fresh.
func WithRefreshInterval(d time.Duration) JWKOption {
	return func(s *JWKSource) { s.refresh = d }
}

// WithFailureBackoff sets the pause between fetches after a failure.
func WithFailureBackoff(d time.Duration) JWKOption {
	return func(s *JWKSource) { s.backoff = d }
}

// NewJWKSource creates a JWKSource reading from url. A nil client uses a
// client with a 10s timeout.
func NewJWKSource(url string, client *http.Client, opts ...JWKOption) *JWKSource {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	s := &JWKSource{
		url:     url,
		client:  client,
		refresh: defaultRefreshInterval,
		backoff: defaultFailureBackoff,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key implements KeySource.
func (s *JWKSource) Key(ctx context.Context, token *jwt.Token) (any, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, fmt.Errorf("token has no kid header")
	}

	set, err := s.keySet(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}

	var pub rsa.PublicKey
	if err := key.Raw(&pub); err != nil {
		return nil, fmt.Errorf("decoding signing key %q: %w", kid, err)
	}
	return &pub, nil
}

func (s *JWKSource) keySet(ctx context.Context) (jwk.Set, error) {
	if ks := s.current.Load(); ks != nil {
		if s.now().After(ks.expires) && s.fetchAllowed() {
			s.fetches.DoChan(s.url, s.fetch)
		}
		return ks.set, nil
	}

	if !s.fetchAllowed() {
		return nil, fmt.Errorf("%w: %v", errKeyUnavailable, s.lastFailure())
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", errKeyUnavailable, ctx.Err())
	case res := <-s.fetches.DoChan(s.url, s.fetch):
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %v", errKeyUnavailable, res.Err)
		}
		return res.Val.(jwk.Set), nil
	}
}

// fetch runs detached from any request so an abandoned caller does not
// cancel the fetch other callers are waiting on.
func (s *JWKSource) fetch() (any, error) {
	if ks := s.current.Load(); ks != nil && !s.now().After(ks.expires) {
		return ks.set, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	set, err := jwk.Fetch(ctx, s.url, jwk.WithHTTPClient(s.client))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failedAt = s.now()
		s.lastErr = err
		return nil, fmt.Errorf("fetching key set: %w", err)
	}
	s.lastErr = nil
	s.current.Store(&keySet{set: set, expires: s.now().Add(s.refresh)})
	return set, nil
}

func (s *JWKSource) fetchAllowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr == nil || s.now().Sub(s.failedAt) >= s.backoff
}

func (s *JWKSource) lastFailure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
