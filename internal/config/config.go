package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DataServiceURL string   `mapstructure:"DATA_SERVICE_URL"`
	DataServiceKey string   `mapstructure:"DATA_SERVICE_KEY"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_SERVICE_URL")
	v.BindEnv("DATA_SERVICE_KEY")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. The hosted data
// service is the only backend, so its URL and public key are always required,
// and the URL must parse as http(s) so a typo fails at startup instead of on
// the first remote call.
func (c *Config) Validate() error {
	if c.DataServiceURL == "" {
		return fmt.Errorf("DATA_SERVICE_URL is required")
	}
	u, err := url.Parse(c.DataServiceURL)
	if err != nil {
		return fmt.Errorf("DATA_SERVICE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("DATA_SERVICE_URL must be an http(s) URL, got %q", c.DataServiceURL)
	}
	if c.DataServiceKey == "" {
		return fmt.Errorf("DATA_SERVICE_KEY is required")
	}
	return nil
}
