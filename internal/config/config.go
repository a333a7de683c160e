package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	RedisURL            string `env:"REDIS_URL,required"`
	SessionSecret       string `env:"SESSION_SECRET"`
	DriveAPIBaseURL     string `env:"DRIVE_API_BASE_URL" envDefault:"https://www.googleapis.com"`
	TempTokenTTLSeconds int    `env:"TEMP_TOKEN_TTL_SECONDS" envDefault:"600"`
	SessionTTLDays      int    `env:"SESSION_TTL_DAYS" envDefault:"7"`
	AuthRateLimitPerMin int    `env:"AUTH_RATE_LIMIT_PER_MIN" envDefault:"20"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	CookieSecure        bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

func (c *Config) TempTokenTTL() time.Duration {
	return time.Duration(c.TempTokenTTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if !c.CookieSecure {
			log.Warn().Msg("COOKIE_SECURE is false in production: session cookies will be sent over plain HTTP")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
