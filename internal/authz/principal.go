package authz

import (
	"github.com/YodaBikarbona/school-book-server/pkg/auth"
	"github.com/YodaBikarbona/school-book-server/pkg/config"
	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
)

// Principal is the per-request authorization context: the caller row loaded
// from storage plus the outcome of the token binding check. It is built once
// by the auth middleware and handed to every service call.
type Principal struct {
	User *models.User
	Role enums.RoleName

	// TokenBound is true when the presented token equals the token minted
	// from the caller row as it stands now. A role or email change since
	// issuance breaks the binding, so a stale token cannot act for
	// Professor or Parent identity-bound operations.
	TokenBound bool
}

// NewPrincipal resolves the caller row and raw token into a Principal.
func NewPrincipal(cfg config.JWTConfig, user *models.User, rawToken string) Principal {
	role, _ := enums.ParseRoleName(user.RoleName())
	return Principal{
		User:       user,
		Role:       role,
		TokenBound: tokenBound(cfg, user, rawToken),
	}
}

func tokenBound(cfg config.JWTConfig, user *models.User, rawToken string) bool {
	if user == nil || user.Email == nil || user.Role == nil {
		return false
	}
	role, err := enums.ParseRoleName(user.Role.Name)
	if err != nil {
		return false
	}
	minted, err := auth.MintAccessToken(cfg, auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  *user.Email,
		Role:   role,
	})
	if err != nil {
		return false
	}
	return minted == rawToken
}

// IsAdministrator reports whether the caller holds the Administrator role.
func (p Principal) IsAdministrator() bool {
	return p.Role == enums.RoleAdministrator
}

// UserID returns the caller's row id, 0 when unresolved.
func (p Principal) UserID() int64 {
	if p.User == nil {
		return 0
	}
	return p.User.ID
}
