package auth

import (
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Subject string
	Role    enums.ActorRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT presented on admin routes.
type AccessTokenClaims struct {
	Role enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
