package userapi

import (
	"os"
	"time"

	"github.com/goliatone/go-errors"
)

// Config carries the runtime settings for the service. Both SigningKey and
// DatabaseDSN are mandatory; callers are expected to treat a LoadConfig
// failure as fatal before serving any traffic.
type Config struct {
	SigningKey      string
	DatabaseDSN     string
	Address         string
	Issuer          string
	TokenExpiration time.Duration
}

func (c Config) GetSigningKey() string             { return c.SigningKey }
func (c Config) GetDatabaseDSN() string            { return c.DatabaseDSN }
func (c Config) GetAddress() string                { return c.Address }
func (c Config) GetIssuer() string                 { return c.Issuer }
func (c Config) GetTokenExpiration() time.Duration { return c.TokenExpiration }

// LoadConfig reads the service configuration from the environment:
//
//	JWT_SECRET    HMAC signing key, required
//	DATABASE_URL  database DSN, required
//	HTTP_ADDR     listen address, defaults to ":3000"
func LoadConfig() (Config, error) {
	cfg := Config{
		Address:         ":3000",
		TokenExpiration: DefaultTokenExpiration,
	}

	cfg.SigningKey = os.Getenv("JWT_SECRET")
	if cfg.SigningKey == "" {
		return cfg, errors.New("JWT_SECRET environment variable is required", errors.CategoryOperation)
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")
	if cfg.DatabaseDSN == "" {
		return cfg, errors.New("DATABASE_URL environment variable is required", errors.CategoryOperation)
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.Address = addr
	}

	cfg.Issuer = os.Getenv("JWT_ISSUER")

	return cfg, nil
}
