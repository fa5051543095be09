package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/middleware"
	"github.com/shinonomekazan/akashic-game-drive/internal/api/response"
	"github.com/shinonomekazan/akashic-game-drive/internal/api/validation"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
)

const maxBodyBytes = 1 << 20

// Operation is the business logic of one route. It only sees sanitized params.
type Operation[P any] func(ctx context.Context, p P) (any, error)

// Endpoint binds a route to its HTTP handler.
type Endpoint struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Handle builds the endpoint for route: validate and bind the request, run
// op, and render the outcome as an envelope.
func Handle[P any](route validation.Route, bind func(*validation.Request) P, op Operation[P]) Endpoint {
	method, pattern, _ := strings.Cut(string(route), " ")

	return Endpoint{
		Method:  method,
		Pattern: pattern,
		Handler: func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetRequestID(r.Context())

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			req, err := validation.FromHTTP(r)
			if err != nil {
				response.Error(w, r, err, requestID)
				return
			}

			params, err := validation.Parse(route, req, bind)
			if err != nil {
				response.Error(w, r, err, requestID)
				return
			}

			data, err := op(r.Context(), params)
			if err != nil {
				response.Error(w, r, err, requestID)
				return
			}

			response.Success(w, http.StatusOK, data, requestID)
		},
	}
}

// authenticator verifies the bearer credential carried by every protected route.
type authenticator struct {
	verifier identity.Verifier
}

func (a authenticator) authenticate(ctx context.Context, p validation.AuthParams) (*identity.Identity, error) {
	return identity.Verify(ctx, a.verifier, p.Authorization)
}
