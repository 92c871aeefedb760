package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT bearer token presented to the API.
//
// It embeds [jwt.Token] for low-level token operations and
// [jwt.RegisteredClaims] for standard claim access. SignedString holds the
// compact serialized form; UserID is the cached "sub" claim.
type Token struct {
	// Token is the underlying JWT token. Excluded from JSON serialization
	// because only the compact string form is meaningful outside the process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides the standard JWT claim set (RFC 7519).
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the caller identifier extracted from the "sub" claim.
	UserID string `json:"-"`
}

// GetUserID extracts the caller identifier from the token's "sub" claim.
func (t *Token) GetUserID() (string, error) {
	userID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting user ID from token: %w", err)
	}
	if userID == "" {
		return "", fmt.Errorf("empty subject in token")
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
