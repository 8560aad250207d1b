package auth

import (
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Email  string
	Role   enums.RoleName
}

// AccessTokenClaims represents the typed JWT issued to clients. The token
// carries no expiry or issued-at claim, so minting the same payload twice
// yields the same string.
type AccessTokenClaims struct {
	Email  string         `json:"email"`
	Role   enums.RoleName `json:"role"`
	UserID int64          `json:"user_id"`
	jwt.RegisteredClaims
}
