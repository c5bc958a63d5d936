package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, BaseURL, LogLevel string }
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type SecurityCfg struct {
	RateLimitPerMin int
	CSRFCookieName  string
	CSRFHeaderName  string
	// TrustProxy takes the client IP from X-Forwarded-For/X-Real-IP; only
	// enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// ClientCfg configures the outbound HTTP client used by the list controller,
// the field patcher and the notification widget.
type ClientCfg struct {
	TimeoutSec int
	UserAgent  string
}

type ListCfg struct {
	PageSize    int
	MaxPageSize int
}

type NotifyCfg struct {
	PollEvery time.Duration
}

type Cfg struct {
	App    AppCfg
	DB     DBCfg
	Redis  RedisCfg
	Sec    SecurityCfg
	Client ClientCfg
	List   ListCfg
	Notify NotifyCfg
}

// ErrMissingDSN is returned by Validate outside development when DB_DSN is unset.
var ErrMissingDSN = errors.New("DB_DSN is required")

// Load reads the configuration from the environment, after loading an optional .env file.
func Load() (Cfg, error) {
	// .env is optional; variables already in the environment win
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_BASE_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("RATE_LIMIT_PER_MIN", 300)
	v.SetDefault("CSRF_COOKIE_NAME", "csrftoken")
	v.SetDefault("CSRF_HEADER_NAME", "X-CSRFToken")
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("CLIENT_TIMEOUT_SEC", 30)
	v.SetDefault("CLIENT_USER_AGENT", "panelkit")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("MAX_PAGE_SIZE", 1000)
	v.SetDefault("NOTIFY_POLL_SEC", 30)

	cfg := Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			BaseURL:  strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB:    DBCfg{DSN: v.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: v.GetString("REDIS_ADDR")},
		Sec: SecurityCfg{
			RateLimitPerMin: v.GetInt("RATE_LIMIT_PER_MIN"),
			CSRFCookieName:  strings.TrimSpace(v.GetString("CSRF_COOKIE_NAME")),
			CSRFHeaderName:  strings.TrimSpace(v.GetString("CSRF_HEADER_NAME")),
			TrustProxy:      v.GetBool("TRUST_PROXY"),
		},
		Client: ClientCfg{
			TimeoutSec: v.GetInt("CLIENT_TIMEOUT_SEC"),
			UserAgent:  v.GetString("CLIENT_USER_AGENT"),
		},
		List: ListCfg{
			PageSize:    v.GetInt("PAGE_SIZE"),
			MaxPageSize: v.GetInt("MAX_PAGE_SIZE"),
		},
		Notify: NotifyCfg{
			PollEvery: time.Duration(v.GetInt("NOTIFY_POLL_SEC")) * time.Second,
		},
	}

	if cfg.List.PageSize <= 0 {
		cfg.List.PageSize = 10
	}
	if cfg.List.MaxPageSize < cfg.List.PageSize {
		cfg.List.MaxPageSize = cfg.List.PageSize
	}
	return cfg, nil
}

// Validate checks the settings the API server cannot run without.
func (c Cfg) Validate() error {
	if c.DB.DSN == "" && !c.IsDevelopment() {
		return ErrMissingDSN
	}
	return nil
}

func (c Cfg) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "test"
}

// MustLoad loads and validates the configuration, exiting the process on failure.
func MustLoad() Cfg {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Str("env", cfg.App.Env).Msg("invalid configuration")
	}
	return cfg
}
