// Package config provides configuration loading for the Oremus server,
// relay and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. OREMUS_SERVER_PORT.
const EnvPrefix = "OREMUS"

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	OAuth   OAuthConfig   `mapstructure:"oauth"`
	Relay   RelayConfig   `mapstructure:"relay"`
	Client  ClientConfig  `mapstructure:"client"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds API server configuration.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects the repository implementation.
type StorageConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `mapstructure:"driver"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path"`
	// Seed loads the sample groups into the memory store.
	Seed bool `mapstructure:"seed"`
	// Latency enables the memory store's simulated delays.
	Latency bool `mapstructure:"latency"`
}

// AuthConfig holds API token configuration.
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	JWTExpiry   time.Duration `mapstructure:"jwt_expiry"`
	DemoEnabled bool          `mapstructure:"demo_enabled"`
	UserInfoURL string        `mapstructure:"userinfo_url"`
}

// OAuthConfig holds the identity provider client. Secrets come from the
// environment or a config file only.
type OAuthConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
}

// RelayConfig holds OAuth relay configuration.
type RelayConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	AppCallbackURL  string        `mapstructure:"app_callback_url"`
	SessionSecret   string        `mapstructure:"session_secret"`
	SecureCookies   bool          `mapstructure:"secure_cookies"`
	ExchangeTimeout time.Duration `mapstructure:"exchange_timeout"`
}

// Addr returns the listen address.
func (c RelayConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ClientConfig holds CLI configuration.
type ClientConfig struct {
	// DataDir holds the local key-value file and the local database.
	DataDir string `mapstructure:"data_dir"`
	// ServerURL switches the CLI to a remote API server when set.
	ServerURL string `mapstructure:"server_url"`
	// CallbackAddr is where `oremus login` waits for the relay redirect.
	CallbackAddr string        `mapstructure:"callback_addr"`
	LoginTimeout time.Duration `mapstructure:"login_timeout"`
	// Theme is the system theme used when none has been chosen.
	Theme string `mapstructure:"theme"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// New returns a viper instance with defaults and environment overrides
// registered. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName("oremus")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "oremus"))
	}
	v.AddConfigPath("/etc/oremus")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads the optional config file and unmarshals the result. An empty
// configFile searches the default locations.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no config file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all settings. Every key needs
// a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "./data/oremus.db")
	v.SetDefault("storage.seed", true)
	v.SetDefault("storage.latency", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiry", "24h")
	v.SetDefault("auth.demo_enabled", true)
	v.SetDefault("auth.userinfo_url", "")

	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.redirect_url", "http://localhost:5000/callback")
	v.SetDefault("oauth.scopes", []string{"openid", "email", "profile"})
	v.SetDefault("oauth.auth_url", "")
	v.SetDefault("oauth.token_url", "")

	v.SetDefault("relay.host", "0.0.0.0")
	v.SetDefault("relay.port", 5000)
	v.SetDefault("relay.app_callback_url", "http://localhost:8085/callback")
	v.SetDefault("relay.session_secret", "")
	v.SetDefault("relay.secure_cookies", false)
	v.SetDefault("relay.exchange_timeout", "15s")

	v.SetDefault("client.data_dir", defaultDataDir())
	v.SetDefault("client.server_url", "")
	v.SetDefault("client.callback_addr", "localhost:8085")
	v.SetDefault("client.login_timeout", "5m")
	v.SetDefault("client.theme", "")

	// empty defers to LOG_LEVEL, then info
	v.SetDefault("log.level", "")
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "oremus")
	}
	return ".oremus"
}
