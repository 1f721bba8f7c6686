// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	SessionDriverRedis    = "redis"
	SessionDriverPostgres = "postgres"
	SessionDriverMemory   = "memory"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Backend   BackendConfig   `koanf:"backend"`
	Session   SessionConfig   `koanf:"session"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// BackendConfig points at the external REST API the portal fronts.
type BackendConfig struct {
	BaseURL         string        `koanf:"base_url"`
	Timeout         time.Duration `koanf:"timeout"`
	PublicEndpoints []string      `koanf:"public_endpoints"`
	LoginRoute      string        `koanf:"login_route"`
}

type SessionConfig struct {
	Driver            string        `koanf:"driver"`
	CookieName        string        `koanf:"cookie_name"`
	CookieDomain      string        `koanf:"cookie_domain"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	TTL               time.Duration `koanf:"ttl"`
	KeyPrefix         string        `koanf:"key_prefix"`
	ExpireStaleTokens bool          `koanf:"expire_stale_tokens"`
	Keys              StorageKeys   `koanf:"keys"`
}

// StorageKeys names the persisted values of one session scope.
type StorageKeys struct {
	Token     string `koanf:"token"`
	User      string `koanf:"user"`
	LoginFlag string `koanf:"login_flag"`
	Version   string `koanf:"version"`
	Sidebar   string `koanf:"sidebar"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Agency Portal",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"backend.timeout": "20s",
		"backend.public_endpoints": []string{
			"/auth/login",
			"/auth/create-account",
			"/health",
		},
		"backend.login_route": "/login",

		"session.driver":              SessionDriverRedis,
		"session.cookie_name":         "portal_sid",
		"session.cookie_secure":       false,
		"session.ttl":                 "168h",
		"session.key_prefix":          "portal:session",
		"session.expire_stale_tokens": false,
		"session.keys.token":          "token",
		"session.keys.user":           "user",
		"session.keys.login_flag":     "isLoggedIn",
		"session.keys.version":        "sessionVersion",
		"session.keys.sidebar":        "sidebarCollapsed",

		"database.max_open_conns":     10,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,

		"rate_limit.requests": 20,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    5,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "agency-portal",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"API_BASE_URL":                "backend.base_url",
	"API_TIMEOUT":                 "backend.timeout",
	"LOGIN_ROUTE":                 "backend.login_route",
	"TOKEN_KEY":                   "session.keys.token",
	"USER_KEY":                    "session.keys.user",
	"LOGIN_FLAG_KEY":              "session.keys.login_flag",
	"SESSION_DRIVER":              "session.driver",
	"SESSION_COOKIE_NAME":         "session.cookie_name",
	"SESSION_COOKIE_DOMAIN":       "session.cookie_domain",
	"SESSION_COOKIE_SECURE":       "session.cookie_secure",
	"SESSION_TTL":                 "session.ttl",
	"SESSION_EXPIRE_STALE_TOKENS": "session.expire_stale_tokens",
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL")
	}

	if !strings.HasPrefix(c.Backend.LoginRoute, "/") {
		return fmt.Errorf("backend.login_route must start with '/'")
	}

	switch c.Session.Driver {
	case SessionDriverRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis session driver")
		}
	case SessionDriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres session driver")
		}
	case SessionDriverMemory:
		if c.App.Environment == "production" {
			return fmt.Errorf("the memory session driver cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}

	keys := c.Session.Keys
	if keys.Token == "" || keys.User == "" || keys.LoginFlag == "" {
		return fmt.Errorf("session storage key names must not be empty")
	}

	if keys.Token == keys.User || keys.Token == keys.LoginFlag ||
		keys.User == keys.LoginFlag {
		return fmt.Errorf("session storage key names must be distinct")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if !c.Session.CookieSecure {
			return fmt.Errorf("SESSION_COOKIE_SECURE must be true in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
