package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
	"github.com/shinonomekazan/akashic-game-drive/internal/storage"
)

// --- Mock Verifier ---

// fakeVerifier accepts "token-<uid>" and rejects everything else.
type fakeVerifier struct {
	calls atomic.Int32
}

func (f *fakeVerifier) VerifyToken(_ context.Context, raw string) (*identity.Identity, error) {
	f.calls.Add(1)
	uid, ok := strings.CutPrefix(raw, "token-")
	if !ok || uid == "" {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	return &identity.Identity{UID: uid}, nil
}

// --- Mock Signer ---

type fakeSigner struct {
	calls int
}

func (f *fakeSigner) SignedUploadURL(_ context.Context, req storage.SignedUploadRequest) (string, error) {
	f.calls++
	return "https://signed.example.com/" + req.ObjectPath, nil
}

func (f *fakeSigner) PublicURL(objectPath string) string {
	return "https://public.example.com/" + objectPath
}

// --- Helpers ---

func bearer(uid string) string { return "Bearer token-" + uid }

func makeChiRequest(method, path string, body any, auth string, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		raw, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, httptest.NewRecorder()
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func metaOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return parseEnvelope(t, w)["meta"].(map[string]any)
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return parseEnvelope(t, w)["data"].(map[string]any)
}
