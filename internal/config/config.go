package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"port"`
	DBPath       string `mapstructure:"db_path"`
	CronSecret   string `mapstructure:"cron_secret"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	ResendFrom   string `mapstructure:"resend_from"`
	BaseURL      string `mapstructure:"base_url"`
}

// EmailConfigured reports whether real email delivery is enabled. When false
// the mail layer runs in dry-run mode and logs instead of sending.
func (c Config) EmailConfigured() bool {
	return c.ResendAPIKey != ""
}

// Load reads configuration from the environment using Viper. Every value has
// a default except the secrets, which stay empty when unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "./tracker.db")
	v.SetDefault("cron_secret", "")
	v.SetDefault("resend_api_key", "")
	v.SetDefault("resend_from", "Task Tracker <no-reply@tasktracker.local>")
	v.SetDefault("base_url", "http://localhost:8080")

	// AutomaticEnv alone does not surface env vars through Unmarshal, so
	// bind each key explicitly.
	for _, key := range []string{"port", "db_path", "cron_secret", "resend_api_key", "resend_from", "base_url"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
