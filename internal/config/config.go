// Package config provides configuration management using viper.
// It supports loading from .env, YAML files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot    BotConfig    `mapstructure:"bot"`
	Game   GameConfig   `mapstructure:"game"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// BotConfig holds Telegram Bot API configuration.
type BotConfig struct {
	Token          string        `mapstructure:"token"`
	APIURL         string        `mapstructure:"api_url"`
	PollTimeout    time.Duration `mapstructure:"poll_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// GameConfig holds the mini-game settings.
type GameConfig struct {
	// ShortName is the game short name registered with @BotFather.
	ShortName string `mapstructure:"short_name"`
	// PublicURL is the externally reachable base address serving both the
	// mini-game page and the score endpoint.
	PublicURL string `mapstructure:"public_url"`
	// ForceScore lets a lower score overwrite a higher recorded one.
	ForceScore bool `mapstructure:"force_score"`
}

// ServerConfig holds the score HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Addr returns the listen address for the score server.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// HTTPTimeout returns the client timeout for bot API calls. Long polling
// holds a request open for PollTimeout, so the request budget is added on top.
func (b *BotConfig) HTTPTimeout() time.Duration {
	return b.PollTimeout + b.RequestTimeout
}

// Load reads configuration from .env, file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	// .env is optional, real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase
	// e.g., BOT_TOKEN, GAME_SHORT_NAME, SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PUBLIC_URL is the historical name of the deep link base
	if err := v.BindEnv("game.public_url", "GAME_PUBLIC_URL", "PUBLIC_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Game.PublicURL = strings.TrimRight(cfg.Game.PublicURL, "/")
	cfg.Bot.APIURL = strings.TrimRight(cfg.Bot.APIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Bot defaults
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.api_url", "https://api.telegram.org")
	v.SetDefault("bot.poll_timeout", "10s")
	v.SetDefault("bot.request_timeout", "10s")

	// Game defaults
	v.SetDefault("game.short_name", "tapclimbjump")
	v.SetDefault("game.public_url", "http://8.222.151.218")
	v.SetDefault("game.force_score", false)

	// Server defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "20s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.cors_origins", []string{})

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// Validate checks the loaded configuration for values that would only fail later.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return errors.New("bot token is required (BOT_TOKEN)")
	}
	if c.Game.ShortName == "" {
		return errors.New("game short name must not be empty")
	}
	u, err := url.Parse(c.Game.PublicURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("game public url must be absolute, got %q", c.Game.PublicURL)
	}
	if _, err := url.Parse(c.Bot.APIURL); err != nil || c.Bot.APIURL == "" {
		return fmt.Errorf("invalid bot api url %q", c.Bot.APIURL)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	for _, origin := range c.Server.CORSOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors origin must start with http:// or https://, got %q", origin)
		}
	}
	if c.Bot.PollTimeout <= 0 || c.Bot.RequestTimeout <= 0 {
		return errors.New("bot timeouts must be positive durations")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive durations")
	}
	return nil
}

// Redacted returns a copy safe to log: the bot token is masked.
func (c Config) Redacted() Config {
	if c.Bot.Token != "" {
		c.Bot.Token = "***"
	}
	return c
}
