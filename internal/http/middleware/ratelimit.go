package middleware

import (
	"fmt"
	"net/http"
	"time"

	"converso-api/internal/auth"
	"converso-api/internal/http/httperr"
	"converso-api/internal/observability/logger"
	"converso-api/internal/ratelimit"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RateLimit enforces a per-user request budget. Must run after
// auth.RequireAuth so the subject is known.
func RateLimit(limiter *ratelimit.RedisRateLimiter, limitPerMin int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.GetLogger(ctx)

			userID, ok := auth.GetUserID(ctx)
			if !ok {
				log.Error(ctx, "user id not found in context for rate limiting",
					logger.Module("http"),
					logger.Action("rate_limit"),
				)
				httperr.WriteStatus(w, ctx, http.StatusInternalServerError, "Erro interno do servidor")
				return
			}

			allowed, remaining, err := limiter.AllowRequest(ctx, userID, limitPerMin, 60)
			if err != nil {
				log.Error(ctx, "rate limit check failed",
					logger.Module("http"),
					logger.Action("rate_limit"),
					zap.Error(err),
				)
				httperr.WriteStatus(w, ctx, http.StatusInternalServerError, "Erro interno do servidor")
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limitPerMin))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(60*time.Second).Unix()))

			if !allowed {
				span := trace.SpanFromContext(ctx)
				span.AddEvent("rate_limit_exceeded")

				log.Warn(ctx, "rate limit exceeded",
					logger.Module("http"),
					logger.Action("rate_limit"),
					zap.Int64("user_id", userID),
					zap.Int("limit", limitPerMin),
				)

				w.Header().Set("Retry-After", "60")
				httperr.WriteStatus(w, ctx, http.StatusTooManyRequests, "Limite de requisições excedido")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
