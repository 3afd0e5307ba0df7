package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"converso-api/internal/apperr"
	"converso-api/internal/observability/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrorResponse is the API error envelope. Field names are part of the
// public contract.
type ErrorResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Detail  string             `json:"error,omitempty"`
}

// Postgres error codes translated into domain conflicts.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var production bool

// SetProduction toggles production mode for the package. In production the
// internal error detail is stripped from 500 responses. Wired once at
// startup from the application config.
func SetProduction(enabled bool) {
	production = enabled
}

// Write maps err onto the error envelope. apperr errors keep their status
// and message; Postgres constraint violations become 409 Conflict naming
// the offending column; anything else is a 500 with a generic message.
func Write(w http.ResponseWriter, ctx context.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		writeAppError(w, ctx, appErr)
		return
	}

	if conflict, ok := TranslatePgError(err); ok {
		writeAppError(w, ctx, conflict)
		return
	}

	logger.SetRootError(ctx, err)

	log := logger.GetLogger(ctx)
	log.Error(ctx, "internal server error",
		logger.Module("http"),
		logger.Action("error_response"),
		zap.Error(err),
		zap.String("request_id", logger.GetRequestIDFromContext(ctx)),
	)

	response := ErrorResponse{
		Status:  "erro",
		Message: "Erro interno do servidor",
	}
	// Internal detail never leaves the API in production.
	if !production && err != nil {
		response.Detail = err.Error()
	}

	writeJSON(w, http.StatusInternalServerError, response)
}

// WriteStatus writes an error envelope with an explicit status and message,
// for callers that sit before the service layer (auth middleware, parsers).
func WriteStatus(w http.ResponseWriter, ctx context.Context, status int, message string) {
	log := logger.GetLogger(ctx)
	log.Warn(ctx, "request rejected",
		logger.Module("http"),
		logger.Action("error_response"),
		zap.Int("status_code", status),
		zap.String("message", message),
	)

	writeJSON(w, status, ErrorResponse{Status: "erro", Message: message})
}

func writeAppError(w http.ResponseWriter, ctx context.Context, appErr *apperr.Error) {
	status := appErr.Status()
	log := logger.GetLogger(ctx)

	if status >= 500 {
		logger.SetRootError(ctx, appErr)
		log.Error(ctx, "request failed",
			logger.Module("http"),
			logger.Action("error_response"),
			zap.Int("status_code", status),
			zap.Error(appErr),
		)
	} else {
		log.Warn(ctx, "request failed",
			logger.Module("http"),
			logger.Action("error_response"),
			zap.Int("status_code", status),
			zap.String("message", appErr.Message),
		)
	}

	writeJSON(w, status, ErrorResponse{
		Status:  "erro",
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

// TranslatePgError rewrites Postgres duplicate-key and FK-violation errors
// into Conflict errors naming the offending column. Other storage errors
// pass through untouched.
func TranslatePgError(err error) (*apperr.Error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		field := constraintField(pgErr)
		return apperr.Wrap(apperr.KindConflict, field+" já está em uso", err), true
	case pgForeignKeyViolation:
		field := constraintField(pgErr)
		return apperr.Wrap(apperr.KindConflict, field+" não existe", err), true
	}
	return nil, false
}

// constraintField extracts the column name from a pg error detail like
// `Key (email)=(a@b.com) already exists.`
func constraintField(pgErr *pgconn.PgError) string {
	detail := pgErr.Detail
	start := -1
	for i := 0; i < len(detail); i++ {
		if detail[i] == '(' {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "campo"
	}
	for i := start; i < len(detail); i++ {
		if detail[i] == ')' {
			return detail[start:i]
		}
	}
	return "campo"
}

func writeJSON(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
