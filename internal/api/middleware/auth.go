package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the decoded token payload attached to the request context.
// Gates below decide from these claims only; there is no per-request user
// lookup, so role changes apply once the access token is reissued.
type Identity struct {
	UserID  uuid.UUID
	Role    domain.Role
	IsBound bool
}

func RequireAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "authorization required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := tokens.VerifyAccessToken(parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("token verification failed")
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			identity := Identity{
				UserID:  claims.UserID(),
				Role:    claims.Role,
				IsBound: claims.IsBound,
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireBound assumes RequireAuth ran earlier in the chain.
func RequireBound(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if !identity.IsBound {
			writeError(w, http.StatusForbidden, "bound account required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin assumes RequireAuth ran earlier in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if identity.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
