package authz

import (
	"net/http"

	"converso-api/internal/auth"
	"converso-api/internal/domain"
	"converso-api/internal/http/httperr"
)

// RequirePermission gates a route behind a single (resource, action)
// permission. Must run after auth.RequireAuth.
func RequirePermission(checker *Checker, name string, action domain.PermissionAction) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r.Context())
			if !ok {
				httperr.WriteStatus(w, r.Context(), http.StatusUnauthorized, "Usuário não autenticado")
				return
			}

			if err := checker.HasPermission(r.Context(), userID, name, action); err != nil {
				httperr.Write(w, r.Context(), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAllPermissions gates a route behind every listed permission.
func RequireAllPermissions(checker *Checker, checks ...domain.PermissionCheck) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r.Context())
			if !ok {
				httperr.WriteStatus(w, r.Context(), http.StatusUnauthorized, "Usuário não autenticado")
				return
			}

			if err := checker.HasAllPermissions(r.Context(), userID, checks); err != nil {
				httperr.Write(w, r.Context(), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission gates a route behind at least one of the listed
// permissions.
func RequireAnyPermission(checker *Checker, checks ...domain.PermissionCheck) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r.Context())
			if !ok {
				httperr.WriteStatus(w, r.Context(), http.StatusUnauthorized, "Usuário não autenticado")
				return
			}

			if err := checker.HasAnyPermission(r.Context(), userID, checks); err != nil {
				httperr.Write(w, r.Context(), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a route behind a role name.
func RequireRole(checker *Checker, roleName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r.Context())
			if !ok {
				httperr.WriteStatus(w, r.Context(), http.StatusUnauthorized, "Usuário não autenticado.")
				return
			}

			if err := checker.HasRole(r.Context(), userID, roleName); err != nil {
				httperr.Write(w, r.Context(), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole gates a route behind at least one of the listed roles.
func RequireAnyRole(checker *Checker, roleNames ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r.Context())
			if !ok {
				httperr.WriteStatus(w, r.Context(), http.StatusUnauthorized, "Usuário não autenticado.")
				return
			}

			if err := checker.HasAnyRole(r.Context(), userID, roleNames); err != nil {
				httperr.Write(w, r.Context(), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAllRoles gates a route behind every listed role.
func RequireAllRoles(checker *Checker, roleNames ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r.Context())
			if !ok {
				httperr.WriteStatus(w, r.Context(), http.StatusUnauthorized, "Usuário não autenticado.")
				return
			}

			if err := checker.HasAllRoles(r.Context(), userID, roleNames); err != nil {
				httperr.Write(w, r.Context(), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
