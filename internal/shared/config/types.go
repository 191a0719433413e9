// Package config defines the configuration structures shared across the application.
package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionConfig configures verification of session tokens issued by the
// external account service. Tokens are only verified here, never issued.
type SessionConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// GatewayConfig configures the external payment gateway client.
type GatewayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	APISecret      string `mapstructure:"api_secret"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	ReturnURL      string `mapstructure:"return_url"`
}

// CheckoutConfig tunes the purchase resolution flow.
type CheckoutConfig struct {
	// PollIntervalSeconds is the fixed delay between gateway status polls.
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	// PollMaxAttempts caps the status poll loop; exhaustion yields an
	// unknown_outcome error, never an inferred result.
	PollMaxAttempts int `mapstructure:"poll_max_attempts"`
	// AmountToleranceMinor is the largest accepted difference, in minor
	// currency units, between the quoted amount held in the pending purchase
	// context and the amount reported by the gateway.
	AmountToleranceMinor int64 `mapstructure:"amount_tolerance_minor"`
	// PendingTTLMinutes bounds how long a pending purchase context is kept.
	PendingTTLMinutes int `mapstructure:"pending_ttl_minutes"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type SchedulerConfig struct {
	ExpirySweepMinutes int `mapstructure:"expiry_sweep_minutes"`
}
