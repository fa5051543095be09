package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

// ErrInvalidJSON is returned when a request body is present but is not a JSON object.
var ErrInvalidJSON = apperror.BadRequest("Request body must be valid JSON")

// Request is the raw input of one HTTP request as seen by validation. It is
// the only view of the request that handlers' parameters are built from.
type Request struct {
	Header http.Header
	Params map[string]string
	Body   map[string]any
}

// FromHTTP captures headers, chi path parameters and the JSON body of r.
// An empty body is treated as an empty object.
func FromHTTP(r *http.Request) (*Request, error) {
	req := &Request{
		Header: r.Header,
		Params: map[string]string{},
		Body:   map[string]any{},
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			req.Params[key] = rctx.URLParams.Values[i]
		}
	}

	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return nil, ErrInvalidJSON
	}
	if body != nil {
		req.Body = body
	}
	return req, nil
}

// lookup reports the raw value of a field and whether it is present. JSON
// null counts as absent.
func (r *Request) lookup(loc Location, field string) (any, bool) {
	switch loc {
	case LocationHeader:
		values, ok := r.Header[field]
		if !ok || len(values) == 0 {
			return nil, false
		}
		return values[0], true
	case LocationParam:
		v, ok := r.Params[field]
		return v, ok
	case LocationBody:
		v, ok := r.Body[field]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

func (r *Request) header(name string) string {
	return r.Header.Get(name)
}

func (r *Request) param(name string) string {
	return r.Params[name]
}

func (r *Request) bodyString(name string) string {
	s, _ := r.Body[name].(string)
	return s
}

// bodyOptional returns nil for absent or null fields so that unset values
// are omitted from writes.
func (r *Request) bodyOptional(name string) *string {
	s, ok := r.Body[name].(string)
	if !ok {
		return nil
	}
	return &s
}
