// Package config loads application settings from configs/config.yml,
// an optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvTest        = "test"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port   string
	Env    string
	Log    LogConfig
	DB     DBConfig
	Auth   AuthConfig
	Server ServerConfig
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Path string
}

type AuthConfig struct {
	Secret     string
	BcryptCost int
	LoginRate  float64 // login attempts per second per client IP; 0 disables the limiter
	LoginBurst int
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	// TrustedProxies are IPs or CIDRs allowed to set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string
}

// IsTest reports whether test-only routes (database reset) should be exposed.
func (c *Config) IsTest() bool { return c.Env == EnvTest }

var ErrMissingSecret = errors.New("auth.secret (SECRET) is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "bloglist.db")
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("auth.login_rate", 5.0)
	v.SetDefault("auth.login_burst", 10)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
}

// Load reads configuration. dir is the directory holding config.yml; a missing
// file is not an error, defaults and environment still apply.
func Load(dir string) (*Config, error) {
	// .env is optional, real environment wins over it.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Plain names used by existing deployments.
	_ = v.BindEnv("auth.secret", "AUTH_SECRET", "SECRET")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("env", "ENV", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Port: v.GetString("port"),
		Env:  strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		Log:  LogConfig{Level: v.GetString("log.level")},
		DB:   DBConfig{Path: v.GetString("db.path")},
		Auth: AuthConfig{
			Secret:     v.GetString("auth.secret"),
			BcryptCost: v.GetInt("auth.bcrypt_cost"),
			LoginRate:  v.GetFloat64("auth.login_rate"),
			LoginBurst: v.GetInt("auth.login_burst"),
		},
		Server: ServerConfig{
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			TrustedProxies:    v.GetStringSlice("server.trusted_proxies"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return ErrMissingSecret
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	if c.Auth.LoginRate < 0 {
		return fmt.Errorf("auth.login_rate must not be negative, got %v", c.Auth.LoginRate)
	}
	if c.Auth.LoginRate > 0 && c.Auth.LoginBurst < 1 {
		return fmt.Errorf("auth.login_burst must be >= 1 when rate limiting is on, got %d", c.Auth.LoginBurst)
	}
	for _, p := range c.Server.TrustedProxies {
		if !validProxy(p) {
			return fmt.Errorf("server.trusted_proxies: %q is neither an IP nor a CIDR", p)
		}
	}
	return nil
}

func validProxy(p string) bool {
	if strings.Contains(p, "/") {
		_, _, err := net.ParseCIDR(p)
		return err == nil
	}
	return net.ParseIP(p) != nil
}
