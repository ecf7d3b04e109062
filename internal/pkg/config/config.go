package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments (ports, DB, secrets)
// - default: values common across environments (timeouts, windows, intervals)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Escrow  EscrowConfig
	Gateway GatewayConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// HoldAnchor selects the instant the escrow hold window counts from.
type HoldAnchor string

const (
	HoldAnchorCapture HoldAnchor = "capture"
	HoldAnchorCheckin HoldAnchor = "checkin"
)

// EscrowConfig pins the hold window behaviour instead of leaving it implied.
type EscrowConfig struct {
	HoldWindow       time.Duration `envconfig:"ESCROW_HOLD_WINDOW" default:"24h"`
	HoldAnchor       HoldAnchor    `envconfig:"ESCROW_HOLD_ANCHOR" default:"checkin"`
	ReleaseInterval  time.Duration `envconfig:"ESCROW_RELEASE_INTERVAL" default:"5m"`
	ReleaseBatchSize int           `envconfig:"ESCROW_RELEASE_BATCH_SIZE" default:"100"`
}

type GatewayConfig struct {
	BaseURL       string        `envconfig:"GATEWAY_BASE_URL" required:"true"`
	APIKey        string        `envconfig:"GATEWAY_API_KEY" required:"true"`
	WebhookSecret string        `envconfig:"GATEWAY_WEBHOOK_SECRET" required:"true"`
	Currency      string        `envconfig:"GATEWAY_CURRENCY" default:"USD"`
	Timeout       time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
	MaxRetries    uint64        `envconfig:"GATEWAY_MAX_RETRIES" default:"3"`
}

func (a HoldAnchor) IsValid() bool {
	switch a {
	case HoldAnchorCapture, HoldAnchorCheckin:
		return true
	default:
		return false
	}
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if !cfg.Escrow.HoldAnchor.IsValid() {
		return Config{}, fmt.Errorf("invalid ESCROW_HOLD_ANCHOR: %q", cfg.Escrow.HoldAnchor)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Escrow: EscrowConfig{
			HoldWindow:       24 * time.Hour,
			HoldAnchor:       HoldAnchorCheckin,
			ReleaseInterval:  time.Minute,
			ReleaseBatchSize: 100,
		},
		Gateway: GatewayConfig{
			BaseURL:       "http://localhost:12111",
			APIKey:        "sk_test",
			WebhookSecret: "whsec_test",
			Currency:      "USD",
			Timeout:       2 * time.Second,
			MaxRetries:    2,
		},
	}
}
