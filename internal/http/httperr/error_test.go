package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"converso-api/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWrite_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, context.Background(), apperr.NotFound("Conversa não encontrada"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeResponse(t, w)
	assert.Equal(t, "erro", resp.Status)
	assert.Equal(t, "Conversa não encontrada", resp.Message)
	assert.Empty(t, resp.Errors)
}

func TestWrite_WrappedAppError(t *testing.T) {
	w := httptest.NewRecorder()
	inner := apperr.Forbidden("Você não tem acesso a esta conversa")
	Write(w, context.Background(), fmt.Errorf("get messages: %w", inner))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Você não tem acesso a esta conversa", decodeResponse(t, w).Message)
}

func TestWrite_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, context.Background(), apperr.Validation("Erro de validação", []apperr.FieldError{
		{Campo: "title", Mensagem: "title é obrigatório"},
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "title", resp.Errors[0].Campo)
}

func TestWrite_UniqueViolationBecomesConflict(t *testing.T) {
	w := httptest.NewRecorder()
	pgErr := &pgconn.PgError{
		Code:   "23505",
		Detail: "Key (email)=(a@b.com) already exists.",
	}
	Write(w, context.Background(), fmt.Errorf("insert user: %w", pgErr))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email já está em uso", decodeResponse(t, w).Message)
}

func TestWrite_ForeignKeyViolationBecomesConflict(t *testing.T) {
	w := httptest.NewRecorder()
	pgErr := &pgconn.PgError{
		Code:   "23503",
		Detail: "Key (user_id)=(99) is not present in table \"users\".",
	}
	Write(w, context.Background(), pgErr)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "user_id não existe", decodeResponse(t, w).Message)
}

func TestWrite_UnknownErrorIs500(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, context.Background(), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "Erro interno do servidor", resp.Message)
	assert.Equal(t, "boom", resp.Detail)
}

func TestWrite_ProductionHidesDetail(t *testing.T) {
	SetProduction(true)
	t.Cleanup(func() { SetProduction(false) })

	w := httptest.NewRecorder()
	Write(w, context.Background(), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "Erro interno do servidor", resp.Message)
	assert.Empty(t, resp.Detail)
}

func TestWriteStatus(t *testing.T) {
	w := httptest.NewRecorder()
	WriteStatus(w, context.Background(), http.StatusUnauthorized, "Usuário não autenticado")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Usuário não autenticado", decodeResponse(t, w).Message)
}

func TestTranslatePgError_PassThrough(t *testing.T) {
	_, ok := TranslatePgError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = TranslatePgError(&pgconn.PgError{Code: "42P01"})
	assert.False(t, ok)
}

func TestConstraintField_MalformedDetail(t *testing.T) {
	assert.Equal(t, "campo", constraintField(&pgconn.PgError{Detail: "no parens here"}))
	assert.Equal(t, "campo", constraintField(&pgconn.PgError{Detail: "(unclosed"}))
}
