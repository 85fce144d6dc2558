package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Generate GenerateConfig `mapstructure:"generate"`
	Server   ServerConfig   `mapstructure:"server"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type GenerateConfig struct {
	OutputDir string `mapstructure:"outputDir"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Host string     `mapstructure:"host"`
	Auth AuthConfig `mapstructure:"auth"`
}

// AuthConfig lists Basic credentials as "user:pass". Empty disables auth.
type AuthConfig struct {
	Users []string `mapstructure:"users"`
	Realm string   `mapstructure:"realm"`
}

type WebhookConfig struct {
	URL      string `mapstructure:"url"`
	Platform string `mapstructure:"platform"`
	Owner    string `mapstructure:"owner"`
	Repo     string `mapstructure:"repo"`
	Token    string `mapstructure:"token"`
	Secret   string `mapstructure:"secret"`
	APIBase  string `mapstructure:"apiBase"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps webhook keys to the environment variables automation
// pipelines already export.
var legacyEnv = map[string]string{
	"webhook.url":      "N8N_WEBHOOK_URL",
	"webhook.platform": "GIT_PLATFORM",
	"webhook.owner":    "REPO_OWNER",
	"webhook.repo":     "REPO_NAME",
	"webhook.token":    "GIT_PLATFORM_TOKEN",
	"webhook.secret":   "WEBHOOK_SECRET",
}

// Load reads configuration from defaults, an optional featgen.yaml and the
// environment. The returned string is the config file actually used, empty
// when none was found.
func Load(configPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("featgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/featgen")
	}

	v.SetEnvPrefix("FEATGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "FEATGEN_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, "", fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("error reading config file: %w", err)
		}
	}

	if envPath := os.Getenv("FEATGEN_CONFIG"); envPath != "" {
		v.SetConfigFile(envPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, "", fmt.Errorf("error reading env config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("generate.outputDir", "./output")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.auth.realm", "featgen")

	v.SetDefault("webhook.platform", "github")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) LogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger. level is shared so a config reload can
// change verbosity of an already running logger.
func (c *Config) NewLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	level.Set(c.LogLevel())
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Logging.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
