package middleware

import (
	"net/http"
	"strings"

	"github.com/base64pro/ratil-app/internal/auth"
	"github.com/base64pro/ratil-app/internal/models"
	"github.com/base64pro/ratil-app/internal/transport"
)

// AdminAuth gates mutation endpoints. A request passes with the static
// admin key header or a valid admin access token (cookie or bearer).
func AdminAuth(adminKey string, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if adminKey != "" && r.Header.Get("X-Admin-Key") == adminKey {
				next.ServeHTTP(w, r)
				return
			}

			if manager != nil {
				if claims := adminClaims(r, manager); claims != nil {
					next.ServeHTTP(w, r)
					return
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

// PortfolioAuth additionally requires the portfolio capability on the
// token. The static admin key implies full access.
func PortfolioAuth(adminKey string, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey != "" && r.Header.Get("X-Admin-Key") == adminKey {
				next.ServeHTTP(w, r)
				return
			}

			if manager != nil {
				if claims := adminClaims(r, manager); claims != nil && claims.CanAccessPortfolio {
					next.ServeHTTP(w, r)
					return
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

func adminClaims(r *http.Request, manager *auth.Manager) *auth.Claims {
	token := ""
	if cookie, err := r.Cookie("ratil_access"); err == nil && cookie.Value != "" {
		token = cookie.Value
	}
	if token == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}
	if token == "" {
		return nil
	}
	claims, err := manager.Parse(token)
	if err != nil || claims.Role != models.UserRoleAdmin {
		return nil
	}
	return claims
}
