package jwtware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-user-api/middleware/jwtware"
)

var signingKey = []byte("test-signing-key")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	require.NoError(t, err)
	return signed
}

func newApp(cfg jwtware.Config) *fiber.App {
	app := fiber.New()
	app.Get("/protected", jwtware.New(cfg), func(c *fiber.Ctx) error {
		claims, _ := c.Locals("user").(jwtware.AuthClaims)
		return c.JSON(fiber.Map{
			"uid":   claims.UserID(),
			"email": claims.UserEmail(),
		})
	})
	return app
}

func TestMiddlewareWithSigningKey(t *testing.T) {
	app := newApp(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: "HS256", Key: signingKey},
	})

	token := signToken(t, jwt.MapClaims{
		"sub":   "42",
		"uid":   float64(42),
		"email": "test@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, float64(42), body["uid"])
	assert.Equal(t, "test@example.com", body["email"])
}

func TestMiddlewareRejections(t *testing.T) {
	app := newApp(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: "HS256", Key: signingKey},
	})

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "Missing header",
			header: "",
		},
		{
			name:   "Wrong scheme",
			header: "Basic abc123",
		},
		{
			name:   "Garbage token",
			header: "Bearer not.a.jwt",
		},
		{
			name: "Expired token",
			header: "Bearer " + func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"sub": "42",
					"exp": time.Now().Add(-time.Hour).Unix(),
				})
				signed, _ := token.SignedString(signingKey)
				return signed
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			res, err := app.Test(req)
			require.NoError(t, err)
			defer res.Body.Close()

			require.Equal(t, http.StatusUnauthorized, res.StatusCode)

			body := map[string]any{}
			require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
			assert.Equal(t, "Unauthorized", body["error"])
			assert.Equal(t, "Invalid or missing token", body["message"])
		})
	}
}

func TestMiddlewareFilter(t *testing.T) {
	app := fiber.New()
	app.Get("/maybe", jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: "HS256", Key: signingKey},
		Filter: func(c *fiber.Ctx) bool {
			return c.Query("skip") == "1"
		},
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/maybe?skip=1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/maybe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestGetExtractors(t *testing.T) {
	app := fiber.New()
	app.Get("/q", func(c *fiber.Ctx) error {
		raw, err := jwtware.ExtractRawToken(c, jwtware.GetExtractors("query:auth_token"))
		if err != nil {
			return c.SendStatus(http.StatusBadRequest)
		}
		return c.SendString(raw)
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/q?auth_token=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/q", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
