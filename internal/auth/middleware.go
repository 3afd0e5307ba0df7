package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"converso-api/internal/http/httperr"
	"converso-api/internal/observability/logger"

	"go.uber.org/zap"
)

type contextKey string

const userIDContextKey contextKey = "auth_user_id"

// RequireAuth validates the bearer token and injects the authenticated
// user id into the request context.
func RequireAuth(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.GetLogger(ctx)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Usuário não autenticado")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Token mal formatado")
				return
			}

			claims, err := tm.Validate(parts[1])
			if err != nil {
				log.Warn(ctx, "token validation failed",
					logger.Module("auth"),
					logger.Action("validate_token"),
					zap.Error(err),
					zap.String("token_prefix", maskToken(parts[1])),
					zap.String("remote_addr", r.RemoteAddr),
				)
				if errors.Is(err, ErrTokenExpired) {
					httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Token expirado")
					return
				}
				httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Token inválido")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				httperr.WriteStatus(w, ctx, http.StatusUnauthorized, "Token inválido")
				return
			}

			ctx = context.WithValue(ctx, userIDContextKey, userID)
			ctx = logger.SetUserIDInContext(ctx, strconv.FormatInt(userID, 10))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID retrieves the authenticated user id from context.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok
}

// SetUserIDForTesting injects a user id into a context. Tests only.
func SetUserIDForTesting(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
