package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/referral-api/internal/models"
)

// UserResolver resolves a token subject to a user record.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// userContextKey is the context key for the authenticated user.
type contextKey string

const userContextKey = contextKey("authenticatedUser")

// Guard validates inbound bearer tokens and resolves them to user records.
type Guard struct {
	tokens *TokenService
	users  UserResolver
}

// NewGuard creates a Guard over the given token service and user resolver.
func NewGuard(tokens *TokenService, users UserResolver) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Middleware protects routes behind bearer-token authentication. Expired
// tokens get 403 with a re-login message; every other failure is an
// undifferentiated 401. Both carry a bearer challenge so clients know to
// re-authenticate. The resolved user is passed down via the request context.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			challenge(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		user, err := g.Resolve(r.Context(), tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrTokenExpired):
				challenge(w, http.StatusForbidden, "Token expired! Please sign-in again")
			case errors.Is(err, models.ErrStoreUnavailable):
				log.Error().Err(err).Msg("Failed to resolve token subject")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			default:
				challenge(w, http.StatusUnauthorized, "Could not validate credentials")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Resolve validates a token and looks up the user it refers to. A valid token
// whose subject no longer exists yields models.ErrInvalidCredentials; the
// token service's distinguished failures pass through unchanged.
func (g *Guard) Resolve(ctx context.Context, tokenStr string) (models.User, error) {
	subject, err := g.tokens.Validate(tokenStr)
	if err != nil {
		return models.User{}, err
	}

	user, err := g.users.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	return user, nil
}

// UserFromContext returns the authenticated user stored by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func challenge(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
