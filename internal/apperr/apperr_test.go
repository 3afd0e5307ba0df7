package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Status(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, New(tt.kind, "x").Status())
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("no rows")
	err := Wrap(KindNotFound, "Conversa não encontrada", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Conversa não encontrada")
}

func TestAs_ThroughWrappedChain(t *testing.T) {
	inner := Forbidden("Você não tem acesso a esta conversa")
	wrapped := fmt.Errorf("create message: %w", inner)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindForbidden, appErr.Kind)
	assert.Equal(t, "Você não tem acesso a esta conversa", appErr.Message)
}

func TestIsKind(t *testing.T) {
	err := NotFound("Mensagem não encontrada")

	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindForbidden))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestValidation_CarriesFieldErrors(t *testing.T) {
	err := Validation("Erro de validação", []FieldError{
		{Campo: "email", Mensagem: "Email inválido"},
	})

	require.Len(t, err.Fields, 1)
	assert.Equal(t, "email", err.Fields[0].Campo)
	assert.Equal(t, http.StatusBadRequest, err.Status())
}
