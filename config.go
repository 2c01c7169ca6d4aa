package credentials

import (
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// EnvConfig is the environment-backed Config implementation
type EnvConfig struct {
	SigningKey       string `env:"AUTH_SIGNING_KEY,required,notEmpty"`
	TokenTTLSeconds  int    `env:"AUTH_TOKEN_TTL" envDefault:"86400"`
	ResetTTLSeconds  int    `env:"AUTH_RESET_TOKEN_TTL" envDefault:"600"`
	HashCost         int    `env:"AUTH_HASH_COST" envDefault:"12"`
	Issuer           string `env:"AUTH_ISSUER" envDefault:"campkit"`
	CookieDays       int    `env:"AUTH_COOKIE_DAYS" envDefault:"30"`
	Scheme           string `env:"AUTH_URL_SCHEME" envDefault:"http"`
	Host             string `env:"AUTH_URL_HOST" envDefault:"localhost:5000"`
	Environment      string `env:"APP_ENV" envDefault:"development"`
	StrictEmailSends bool   `env:"AUTH_STRICT_EMAIL"`
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig reads configuration from the process environment
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to load credentials configuration from environment")
	}
	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string { return c.SigningKey }

func (c *EnvConfig) GetTokenTTL() int { return c.TokenTTLSeconds }

func (c *EnvConfig) GetResetTokenTTL() int { return c.ResetTTLSeconds }

func (c *EnvConfig) GetHashCost() int { return c.HashCost }

func (c *EnvConfig) GetIssuer() string { return c.Issuer }

func (c *EnvConfig) GetCookieDays() int { return c.CookieDays }

func (c *EnvConfig) GetScheme() string { return c.Scheme }

func (c *EnvConfig) GetHost() string { return c.Host }

func (c *EnvConfig) IsProduction() bool { return c.Environment == "production" }

// StrictEmail reports whether a failed email send fails the operation.
// Production deployments default to strict.
func (c *EnvConfig) StrictEmail() bool {
	return c.StrictEmailSends || c.IsProduction()
}
