package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/andreicosmin02/furniture-store-api/internal/api"
	"github.com/andreicosmin02/furniture-store-api/internal/models"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
)

// contextKey is a type for context keys
type contextKey string

const actorKey contextKey = "actor"

// Auth middleware authenticates the bearer token and attaches the
// decoded identity to the request context. Nothing past this point
// runs for an unauthenticated request.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Unauthorized(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				api.Unauthorized(w, "Invalid Authorization header format")
				return
			}

			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				api.Unauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				api.Unauthorized(w, "Invalid or expired token")
				return
			}

			actor := service.Actor{UserID: userID, Role: claims.Role}
			ctx := context.WithValue(r.Context(), actorKey, actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose actor is not an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			api.Unauthorized(w, "Unauthorized")
			return
		}
		if actor.Role != models.RoleAdmin {
			api.Forbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetActor extracts the authenticated identity from the context.
func GetActor(ctx context.Context) (service.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(service.Actor)
	return actor, ok
}
