package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "sparkle"

// Environment variable names shared with tests and deploy tooling.
const (
	EnvAppEnv         = "SPARKLE_APP_ENV"
	EnvPort           = "SPARKLE_APP_PORT"
	EnvBackendBaseURL = "SPARKLE_BACKEND_BASE_URL"
	EnvBackendWSURL   = "SPARKLE_BACKEND_WS_URL"
	EnvStorePath      = "SPARKLE_STORE_PATH"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Delivery  DeliveryConfig
	Store     StoreConfig
	Dashboard DashboardConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPARKLE_APP_ENV" required:"true"`
	Port         string `envconfig:"SPARKLE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SPARKLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPARKLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the gateway at the remote gift-shop REST service.
type BackendConfig struct {
	BaseURL string        `envconfig:"SPARKLE_BACKEND_BASE_URL" required:"true"`
	WSURL   string        `envconfig:"SPARKLE_BACKEND_WS_URL"`
	Timeout time.Duration `envconfig:"SPARKLE_BACKEND_TIMEOUT" default:"10s"`
}

func (b BackendConfig) validate() error {
	if !strings.HasPrefix(b.BaseURL, "http://") && !strings.HasPrefix(b.BaseURL, "https://") {
		return fmt.Errorf("backend base url must be http(s): %q", b.BaseURL)
	}
	return nil
}

// PushURL returns the websocket endpoint, derived from the base URL when unset.
func (b BackendConfig) PushURL() string {
	if b.WSURL != "" {
		return b.WSURL
	}
	derived := strings.Replace(b.BaseURL, "https://", "wss://", 1)
	derived = strings.Replace(derived, "http://", "ws://", 1)
	return strings.TrimRight(derived, "/") + "/ws/tracking"
}

// DeliveryConfig mirrors the store's delivery fee policy for display math.
// The values must match the backend's authoritative policy.
type DeliveryConfig struct {
	FreeThreshold int `envconfig:"SPARKLE_DELIVERY_FREE_THRESHOLD" default:"500"`
	FlatFee       int `envconfig:"SPARKLE_DELIVERY_FLAT_FEE" default:"50"`
}

type StoreConfig struct {
	Path string `envconfig:"SPARKLE_STORE_PATH" default:".sparkle/localstore.json"`
}

type DashboardConfig struct {
	PollInterval time.Duration `envconfig:"SPARKLE_DASHBOARD_POLL_INTERVAL" default:"15s"`
}

type CORSConfig struct {
	Origins []string `envconfig:"SPARKLE_CORS_ORIGINS" default:"http://localhost:3000"`
}
