package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/crucial707/listing-admin/internal/auth"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/crucial707/listing-admin/internal/repo"
	"go.uber.org/zap"
)

type key string

const userKey key = "user"

// ErrNoToken means the request carried no usable "Bearer <token>" header.
var ErrNoToken = errors.New("no token provided")

// UserLookup resolves the user a token was issued to.
type UserLookup interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Guard authenticates requests from their bearer token and checks roles.
// The user is re-read from the store on every request, so role changes and
// deletions take effect before the token expires.
type Guard struct {
	Tokens *auth.TokenService
	Users  UserLookup
	// RoleMismatchStatus is sent when an authenticated user lacks the required
	// role. Zero means 403.
	RoleMismatchStatus int
	Log                *zap.SugaredLogger
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user set by RequireUser, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// Authenticate resolves the request's bearer token to a stored user.
// It returns ErrNoToken when the header is absent or malformed and
// auth.ErrInvalidToken when the token fails verification or its user
// can no longer be loaded.
func (g *Guard) Authenticate(r *http.Request) (*models.User, error) {
	tok, ok := bearerToken(r)
	if !ok {
		return nil, ErrNoToken
	}

	claims, err := g.Tokens.Verify(tok)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	user, err := g.Users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) && g.Log != nil {
			g.Log.Warnw("auth: user lookup failed", "user_id", claims.UserID, "error", err)
		}
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

// Authorize reports whether user holds requiredRole. A nil user is never authorized.
func Authorize(user *models.User, requiredRole string) bool {
	return user != nil && user.Role == requiredRole
}

// RequireUser rejects unauthenticated requests with 401 and stores the user in the request context.
func (g *Guard) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.Authenticate(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole rejects callers whose role differs from role. It authenticates
// the request itself when no earlier RequireUser has done so.
func (g *Guard) RequireRole(role string) func(http.Handler) http.Handler {
	status := g.RoleMismatchStatus
	if status == 0 {
		status = http.StatusForbidden
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				u, err := g.Authenticate(r)
				if err != nil {
					writeAuthError(w, err)
					return
				}
				user = u
				r = r.WithContext(WithUser(r.Context(), user))
			}
			if !Authorize(user, role) {
				writeJSONError(w, "Unauthorized", status)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNoToken) {
		writeJSONError(w, "No token provided", http.StatusUnauthorized)
		return
	}
	writeJSONError(w, "Invalid token", http.StatusUnauthorized)
}
