package userapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	userapi "github.com/goliatone/go-user-api"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := userapi.Identity{ID: 42, Email: "test@example.com"}

	ctx := userapi.WithIdentityContext(context.Background(), identity)

	got, ok := userapi.IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, identity, got)
}

func TestIdentityFromContextMissing(t *testing.T) {
	_, ok := userapi.IdentityFromContext(context.Background())
	assert.False(t, ok)
}
