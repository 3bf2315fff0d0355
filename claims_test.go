package userapi_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	userapi "github.com/goliatone/go-user-api"
)

func TestJWTClaimsUserID(t *testing.T) {
	tests := []struct {
		name   string
		claims *userapi.JWTClaims
		want   int64
	}{
		{
			name: "Explicit uid claim",
			claims: &userapi.JWTClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "999"},
				UID:              42,
			},
			want: 42,
		},
		{
			name: "Falls back to subject",
			claims: &userapi.JWTClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "17"},
			},
			want: 17,
		},
		{
			name: "Unparseable subject",
			claims: &userapi.JWTClaims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-number"},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.UserID())
		})
	}
}

func TestJWTClaimsToIdentity(t *testing.T) {
	claims := &userapi.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
		UID:              7,
		Email:            "test@example.com",
	}

	identity := claims.ToIdentity()
	assert.Equal(t, int64(7), identity.ID)
	assert.Equal(t, "test@example.com", identity.Email)
}

func TestJWTClaimsTimes(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	exp := now.Add(24 * time.Hour)

	claims := &userapi.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	assert.Equal(t, now, claims.IssuedAt())
	assert.Equal(t, exp, claims.Expires())

	empty := &userapi.JWTClaims{}
	assert.True(t, empty.Expires().IsZero())
	assert.True(t, empty.IssuedAt().IsZero())
}
