package validation_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/validation"
	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

func authorized(body map[string]any, params map[string]string) *validation.Request {
	if params == nil {
		params = map[string]string{}
	}
	if body == nil {
		body = map[string]any{}
	}
	return &validation.Request{
		Header: http.Header{"Authorization": {"Bearer token"}},
		Params: params,
		Body:   body,
	}
}

func fields(errs []validation.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidate_CreateContent_Valid(t *testing.T) {
	req := authorized(map[string]any{
		"title":        "My Game",
		"zipUrl":       "uploads/u/contents/zip/game.zip",
		"thumbnailUrl": "uploads/u/contents/thumbnail/1-abc.png",
	}, nil)

	errs := validation.Validate(validation.Rules(validation.RouteCreateContent), req)

	assert.Empty(t, errs)
}

func TestValidate_CreateContent_AggregatesAllFailures(t *testing.T) {
	req := &validation.Request{
		Header: http.Header{},
		Params: map[string]string{},
		Body: map[string]any{
			"title":       "",
			"description": 42.0,
		},
	}

	errs := validation.Validate(validation.Rules(validation.RouteCreateContent), req)

	require.Len(t, errs, 5)
	assert.Equal(t, []string{"Authorization", "title", "description", "zipUrl", "thumbnailUrl"}, fields(errs))
	assert.Equal(t, validation.LocationHeader, errs[0].Location)
	assert.Equal(t, "Authorization is required", errs[0].Message)
	assert.Equal(t, "title must not be empty", errs[1].Message)
	assert.Equal(t, "description must be a string", errs[2].Message)
	assert.Equal(t, "zipUrl is required", errs[3].Message)
}

func TestValidate_BearerShape(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"bearer", "Bearer abc", false},
		{"lowercase bearer", "bearer abc", false},
		{"basic", "Basic abc", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &validation.Request{
				Header: http.Header{"Authorization": {tt.header}},
				Params: map[string]string{},
				Body:   map[string]any{},
			}

			errs := validation.Validate(validation.Rules(validation.RouteListMyContents), req)

			if tt.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, "Authorization", errs[0].Field)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_UploadURL_KindEnum(t *testing.T) {
	req := authorized(map[string]any{"kind": "video", "mimeType": "video/mp4"}, nil)

	errs := validation.Validate(validation.Rules(validation.RouteIssueUploadURL), req)

	require.Len(t, errs, 1)
	assert.Equal(t, "kind", errs[0].Field)
	assert.Equal(t, "kind must be one of: zip, thumbnail", errs[0].Message)
}

func TestValidate_UploadURL_OptionalFieldsCheckedWhenPresent(t *testing.T) {
	req := authorized(map[string]any{
		"kind":      "zip",
		"mimeType":  "application/zip",
		"fileName":  "",
		"contentId": nil,
	}, nil)

	errs := validation.Validate(validation.Rules(validation.RouteIssueUploadURL), req)

	require.Len(t, errs, 1)
	assert.Equal(t, "fileName", errs[0].Field)
}

func TestValidate_UpdateContent_MethodSpecificRules(t *testing.T) {
	// PUT only requires id and title; POST requires the upload paths too.
	req := authorized(map[string]any{"title": "Renamed"}, map[string]string{"id": "c1"})

	assert.Empty(t, validation.Validate(validation.Rules(validation.RouteUpdateContent), req))
	assert.Len(t, validation.Validate(validation.Rules(validation.RouteCreateContent), req), 2)
}

func TestParse_BindsSanitizedParams(t *testing.T) {
	req := authorized(map[string]any{
		"title":        "  Renamed  ",
		"thumbnailUrl": "uploads/u/contents/thumbnail/new.png",
	}, map[string]string{"id": "c1"})

	p, err := validation.Parse(validation.RouteUpdateContent, req, validation.BindUpdateContent)

	require.NoError(t, err)
	assert.Equal(t, "Bearer token", p.Authorization)
	assert.Equal(t, "c1", p.ID)
	assert.Equal(t, "Renamed", p.Title)
	assert.Nil(t, p.Description)
	assert.Nil(t, p.ZipURL)
	require.NotNil(t, p.ThumbnailURL)
	assert.Equal(t, "uploads/u/contents/thumbnail/new.png", *p.ThumbnailURL)
}

func TestParse_FailureCarriesAggregatedData(t *testing.T) {
	req := authorized(map[string]any{}, nil)

	_, err := validation.Parse(validation.RouteRegisterUser, req, validation.BindRegisterUser)

	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindBadRequest, appErr.Kind)
	data := appErr.Data.(map[string]any)
	errs := data["errors"].([]validation.FieldError)
	assert.Equal(t, []string{"name"}, fields(errs))
}

func TestFromHTTP_CollectsParamsHeadersAndBody(t *testing.T) {
	var got *validation.Request
	r := chi.NewRouter()
	r.Put("/contents/{id}", func(w http.ResponseWriter, r *http.Request) {
		var err error
		got, err = validation.FromHTTP(r)
		require.NoError(t, err)
	})

	req := httptest.NewRequest(http.MethodPut, "/contents/abc", strings.NewReader(`{"title":"t"}`))
	req.Header.Set("Authorization", "Bearer x")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "abc", got.Params["id"])
	assert.Equal(t, "t", got.Body["title"])
	assert.Equal(t, "Bearer x", got.Header.Get("Authorization"))
}

func TestFromHTTP_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contents/me", nil)

	got, err := validation.FromHTTP(req)

	require.NoError(t, err)
	assert.Empty(t, got.Body)
}

func TestFromHTTP_InvalidJSON(t *testing.T) {
	tests := []string{`{"title":`, `["not","an","object"]`}
	for _, body := range tests {
		req := httptest.NewRequest(http.MethodPost, "/contents", strings.NewReader(body))

		_, err := validation.FromHTTP(req)

		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrInvalidJSON)
	}
}
