package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

func TestKind_StatusAndCode(t *testing.T) {
	tests := []struct {
		kind   apperror.Kind
		status int
		code   string
	}{
		{apperror.KindBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{apperror.KindUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{apperror.KindForbidden, http.StatusForbidden, "FORBIDDEN"},
		{apperror.KindNotFound, http.StatusNotFound, "NOT_FOUND"},
		{apperror.KindDuplicate, http.StatusConflict, "DUPLICATE"},
		{apperror.KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{apperror.KindServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.Status())
			assert.Equal(t, tt.code, tt.kind.Code())
		})
	}
}

func TestNew_DefaultMessage(t *testing.T) {
	err := apperror.Forbidden("")
	assert.Equal(t, "Forbidden", err.Message)
	assert.Equal(t, http.StatusForbidden, err.Status())
}

func TestAs_FindsWrappedError(t *testing.T) {
	base := apperror.NotFound("content not found")
	wrapped := fmt.Errorf("loading content: %w", base)

	got, ok := apperror.As(wrapped)
	require.True(t, ok)
	assert.Same(t, base, got)
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(wrapped))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(errors.New("boom")))
}

func TestWithData_DoesNotMutateOriginal(t *testing.T) {
	base := apperror.BadRequest("invalid")
	withData := base.WithData([]string{"a"})

	assert.Nil(t, base.Data)
	assert.Equal(t, []string{"a"}, withData.Data)
	assert.Equal(t, base.Kind, withData.Kind)
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("token expired")
	err := apperror.Wrap(apperror.KindUnauthorized, "invalid token", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid token: token expired", err.Error())
}
