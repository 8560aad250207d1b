package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/YodaBikarbona/school-book-server/api/responses"
	"github.com/YodaBikarbona/school-book-server/internal/authz"
	pkgauth "github.com/YodaBikarbona/school-book-server/pkg/auth"
	"github.com/YodaBikarbona/school-book-server/pkg/config"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
	"gorm.io/gorm"
)

// UserLoader resolves the caller row for a token's email claim.
type UserLoader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Auth validates a bearer token, loads the caller row and seeds the request
// context with the resulting principal. The raw token travels into the
// principal so downstream policy checks can verify it still matches the
// caller's current state.
func Auth(cfg config.JWTConfig, users UserLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				raw = strings.TrimSpace(raw[7:])
			}
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Security token is missing!"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Security token is invalid!"))
				return
			}

			user, err := users.FindByEmail(r.Context(), claims.Email)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Not found!"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load caller"))
				return
			}

			principal := authz.NewPrincipal(cfg, user, raw)
			ctx := WithPrincipal(r.Context(), principal)

			if logg != nil {
				ctx = logg.WithUserID(ctx, user.ID)
				ctx = logg.WithActorRole(ctx, user.RoleName())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
