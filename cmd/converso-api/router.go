package main

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"converso-api/internal/auth"
	"converso-api/internal/authz"
	"converso-api/internal/config"
	"converso-api/internal/domain"
	"converso-api/internal/http/docs"
	"converso-api/internal/http/handler"
	"converso-api/internal/http/middleware"
	"converso-api/internal/observability/logger"
	"converso-api/internal/ratelimit"
	"converso-api/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps contém as dependências necessárias para construir o router.
type RouterDeps struct {
	Cfg         *config.Config
	Log         *logger.Logger
	Tokens      *auth.TokenManager
	Checker     *authz.Checker
	RateLimiter *ratelimit.RedisRateLimiter
	Metrics     *telemetry.Metrics
	Pool        *pgxpool.Pool // readiness check

	// Handlers
	AuthHandler           *handler.AuthHandler
	ConversationHandler   *handler.ConversationHandler
	MessageHandler        *handler.MessageHandler
	RoleHandler           *handler.RoleHandler
	PermissionHandler     *handler.PermissionHandler
	RolePermissionHandler *handler.RolePermissionHandler
}

// buildRouter constrói o chi.Router com todos os middlewares e rotas.
func buildRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogging(deps.Log))
	r.Use(middleware.Recovery(deps.Log))
	r.Use(telemetry.OTelMiddleware(deps.Cfg.OTELServiceName))
	if deps.Metrics != nil {
		r.Use(telemetry.MetricsMiddleware(deps.Metrics))
	}

	// Infra routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if deps.Pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := deps.Pool.Ping(ctx); err != nil {
				deps.Log.Error(ctx, "readiness check failed: database unavailable", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"error","message":"database unavailable"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Get("/metrics", metricsHandler(deps.Cfg.MetricsToken))
	r.Get("/openapi.yaml", docs.OpenAPIHandler().ServeHTTP)
	r.Get("/docs", docs.ScalarDocsHandler("/openapi.yaml").ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// Rotas públicas de autenticação
		if deps.AuthHandler != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", deps.AuthHandler.Register)
				r.Post("/login", deps.AuthHandler.Login)
				r.Post("/reset-password", deps.AuthHandler.ResetPassword)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireAuth(deps.Tokens))
					if deps.RateLimiter != nil {
						r.Use(middleware.RateLimit(deps.RateLimiter, deps.Cfg.RateLimitPerUserPerMin))
					}
					r.Get("/me", deps.AuthHandler.Me)
					r.Put("/change-password", deps.AuthHandler.ChangePassword)
				})
			})
		}

		// Rotas autenticadas
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(deps.Tokens))
			if deps.RateLimiter != nil {
				r.Use(middleware.RateLimit(deps.RateLimiter, deps.Cfg.RateLimitPerUserPerMin))
			}

			if deps.ConversationHandler != nil {
				r.Route("/conversations", func(r chi.Router) {
					r.Get("/", deps.ConversationHandler.Index)
					r.Post("/", deps.ConversationHandler.Create)

					r.Route("/{conversationId}", func(r chi.Router) {
						r.Get("/", deps.ConversationHandler.Show)
						r.Put("/", deps.ConversationHandler.Update)
						r.Delete("/", deps.ConversationHandler.Delete)

						r.Get("/participants", deps.ConversationHandler.GetParticipants)
						r.Post("/participants", deps.ConversationHandler.AddParticipants)
						r.Delete("/participants/{userId}", deps.ConversationHandler.RemoveParticipant)

						if deps.MessageHandler != nil {
							r.Route("/messages", func(r chi.Router) {
								r.Get("/", deps.MessageHandler.Index)
								r.Post("/", deps.MessageHandler.Create)
								r.Get("/unread-count", deps.MessageHandler.UnreadCount)
								r.Post("/mark-as-read", deps.MessageHandler.MarkAsRead)

								r.Route("/{messageId}", func(r chi.Router) {
									r.Get("/", deps.MessageHandler.Show)
									r.Put("/", deps.MessageHandler.Update)
									r.Delete("/", deps.MessageHandler.Delete)
								})
							})
						}
					})
				})
			}

			if deps.RoleHandler != nil && deps.Checker != nil {
				r.Route("/roles", func(r chi.Router) {
					r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionCreate)).
						Post("/", deps.RoleHandler.Create)
					r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionRead)).
						Get("/all", deps.RoleHandler.Index)

					r.Route("/{id}", func(r chi.Router) {
						r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionRead)).
							Get("/", deps.RoleHandler.Show)
						r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionUpdate)).
							Put("/", deps.RoleHandler.Update)
						r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionDelete)).
							Delete("/", deps.RoleHandler.Delete)
					})
				})
			}

			if deps.PermissionHandler != nil && deps.Checker != nil {
				r.Route("/permissions", func(r chi.Router) {
					r.With(authz.RequirePermission(deps.Checker, "permissions", domain.ActionCreate)).
						Post("/", deps.PermissionHandler.Create)
					r.With(authz.RequirePermission(deps.Checker, "permissions", domain.ActionRead)).
						Get("/all", deps.PermissionHandler.Index)

					r.Route("/{id}", func(r chi.Router) {
						r.With(authz.RequirePermission(deps.Checker, "permissions", domain.ActionRead)).
							Get("/", deps.PermissionHandler.Show)
						r.With(authz.RequirePermission(deps.Checker, "permissions", domain.ActionUpdate)).
							Put("/", deps.PermissionHandler.Update)
						r.With(authz.RequirePermission(deps.Checker, "permissions", domain.ActionDelete)).
							Delete("/", deps.PermissionHandler.Delete)
					})
				})
			}

			if deps.RolePermissionHandler != nil && deps.Checker != nil {
				r.Route("/roles-permissions", func(r chi.Router) {
					r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionUpdate)).
						Post("/attach", deps.RolePermissionHandler.Attach)
					r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionUpdate)).
						Post("/detach", deps.RolePermissionHandler.Detach)
					r.With(authz.RequirePermission(deps.Checker, "roles", domain.ActionRead)).
						Get("/{roleId}/all", deps.RolePermissionHandler.All)
				})
			}
		})
	})

	return r
}

// metricsHandler expõe o endpoint Prometheus. Quando METRICS_TOKEN está
// configurado, aceita o valor via X-Metrics-Token ou Authorization: Bearer.
func metricsHandler(token string) http.HandlerFunc {
	promHandler := promhttp.Handler()

	return func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			provided := r.Header.Get("X-Metrics-Token")
			if provided == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					provided = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"status":"erro","message":"unauthorized"}`))
				return
			}
		}

		promHandler.ServeHTTP(w, r)
	}
}
