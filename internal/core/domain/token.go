package domain

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the payload of a session token: the authenticated identity
// plus the registered issued-at/expiry claims. Roles are deliberately not
// embedded — they are re-read from the store on every authenticated request
// so a mutation takes effect without waiting for token expiry.
type TokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
