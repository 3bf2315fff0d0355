package userapi

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the transient, per-request value derived from a verified
// token. It exists only for the duration of one request and is the sole
// input to the ownership check.
type Identity struct {
	ID    int64
	Email string
}

// AuthClaims represents validated token claims
type AuthClaims interface {
	Subject() string
	UserID() int64
	UserEmail() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID   int64  `json:"uid"`
	Email string `json:"email,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user id carried by the token. Falls back to parsing the
// subject claim for tokens minted without an explicit uid.
func (c *JWTClaims) UserID() int64 {
	if c.UID != 0 {
		return c.UID
	}
	id, err := strconv.ParseInt(c.RegisteredClaims.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// UserEmail returns the email carried by the token
func (c *JWTClaims) UserEmail() string {
	return c.Email
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ToIdentity converts claims back into the identity they were minted from
func (c *JWTClaims) ToIdentity() Identity {
	return Identity{
		ID:    c.UserID(),
		Email: c.Email,
	}
}
