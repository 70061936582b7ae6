package utils

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Admin     AdminConfig
	Dashboard DashboardConfig
	Security  SecurityConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// RedisConfig holds the flash message store connection. An empty Addr
// switches the application to the in-memory store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret      string
	ExpiryHours int
	CookieName  string
	// SecureCookie marks session and flash cookies as HTTPS only.
	SecureCookie bool
}

// AdminConfig is the account seeded into an empty users table.
type AdminConfig struct {
	Username string
	Password string
	Email    string
}

type DashboardConfig struct {
	SlowPanelDelay time.Duration
}

type SecurityConfig struct {
	LoginRatePerMinute int
	LoginBurst         int
	// TrustProxy takes the client address from forwarding headers. Enable
	// only behind a reverse proxy that overwrites them.
	TrustProxy bool
}

// Development fallbacks; InsecureDefaults reports when they are still in use.
const (
	DefaultSessionSecret = "change-me"
	DefaultAdminPassword = "admin123"
)

// LoadConfig reads the optional env file at path and overlays the process
// environment on top of it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "backoffice")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("SESSION_COOKIE", "backoffice_session")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", DefaultAdminPassword)
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SLOW_PANEL_DELAY", 5*time.Second)
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("LOGIN_BURST", 5)
	v.SetDefault("TRUST_PROXY", false)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("SESSION_SECRET"),
			ExpiryHours:  v.GetInt("SESSION_EXPIRY_HOURS"),
			CookieName:   v.GetString("SESSION_COOKIE"),
			SecureCookie: v.GetBool("SESSION_SECURE"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Email:    v.GetString("ADMIN_EMAIL"),
		},
		Dashboard: DashboardConfig{
			SlowPanelDelay: v.GetDuration("SLOW_PANEL_DELAY"),
		},
		Security: SecurityConfig{
			LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
			LoginBurst:         v.GetInt("LOGIN_BURST"),
			TrustProxy:         v.GetBool("TRUST_PROXY"),
		},
	}

	return config, nil
}

// InsecureDefaults lists the settings still holding their development value.
func (c *Config) InsecureDefaults() []string {
	var names []string
	if c.Session.Secret == DefaultSessionSecret {
		names = append(names, "SESSION_SECRET")
	}
	if c.Admin.Password == DefaultAdminPassword {
		names = append(names, "ADMIN_PASSWORD")
	}
	return names
}
