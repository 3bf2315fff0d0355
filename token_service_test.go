package userapi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapi "github.com/goliatone/go-user-api"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := userapi.NewTokenService([]byte("test-signing-key"), 24*time.Hour, "test-issuer", nil)

	identity := userapi.Identity{ID: 42, Email: "test@example.com"}

	token, err := svc.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, "test@example.com", claims.UserEmail())
	assert.Equal(t, "42", claims.Subject())

	ttl := time.Until(claims.Expires())
	assert.Greater(t, ttl, 23*time.Hour)
	assert.LessOrEqual(t, ttl, 24*time.Hour)
}

func TestTokenServiceAssignsTokenID(t *testing.T) {
	svc := userapi.NewTokenService([]byte("test-signing-key"), 0, "", nil)

	first, err := svc.Generate(userapi.Identity{ID: 1})
	require.NoError(t, err)

	second, err := svc.Generate(userapi.Identity{ID: 1})
	require.NoError(t, err)

	// same identity, different jti, so the strings differ
	assert.NotEqual(t, first, second)
}

func TestTokenServiceValidate(t *testing.T) {
	svc := userapi.NewTokenService([]byte("test-signing-key"), 24*time.Hour, "", nil)

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "Expired token",
			token: func(t *testing.T) string {
				expired := userapi.NewTokenService([]byte("test-signing-key"), -time.Hour, "", nil)
				token, err := expired.Generate(userapi.Identity{ID: 1})
				require.NoError(t, err)
				return token
			},
			wantErr: userapi.ErrTokenExpired,
		},
		{
			name: "Wrong signing key",
			token: func(t *testing.T) string {
				other := userapi.NewTokenService([]byte("other-key"), 24*time.Hour, "", nil)
				token, err := other.Generate(userapi.Identity{ID: 1})
				require.NoError(t, err)
				return token
			},
			wantErr: nil,
		},
		{
			name: "Malformed token",
			token: func(t *testing.T) string {
				return "not.a.jwt"
			},
			wantErr: nil,
		},
		{
			name: "Empty token",
			token: func(t *testing.T) string {
				return ""
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Validate(tt.token(t))
			assert.Error(t, err)
			assert.Nil(t, claims)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTokenServiceIssuerCheck(t *testing.T) {
	issuing := userapi.NewTokenService([]byte("test-signing-key"), 24*time.Hour, "issuer-a", nil)
	validating := userapi.NewTokenService([]byte("test-signing-key"), 24*time.Hour, "issuer-b", nil)

	token, err := issuing.Generate(userapi.Identity{ID: 7})
	require.NoError(t, err)

	_, err = validating.Validate(token)
	assert.Error(t, err)
}
