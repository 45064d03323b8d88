package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/archetype/internal/llm"
	"github.com/abhisek/archetype/internal/quiz"
	"github.com/abhisek/archetype/internal/store"
)

// EnvPrefix prefixes every application environment variable.
const EnvPrefix = "QUIZ"

// Config is the resolved application configuration.
type Config struct {
	StorageKey      string
	DBPath          string
	RedisURL        string
	RedisTTL        time.Duration
	TransitionDelay time.Duration

	LogFile  string
	LogLevel string

	ResultsEndpoint string
	ServeAddr       string

	SMTP SMTPConfig

	// LLM is nil when no provider is configured.
	LLM *llm.Config
}

// SMTPConfig configures outbound mail.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	To   string
	From string
}

// Configured reports whether enough is set to send mail.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Pass != "" && c.To != ""
}

// Sender returns the envelope sender, defaulting to the SMTP user.
func (c SMTPConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.User
}

// Options controls where configuration is read from.
type Options struct {
	// EnvFile is loaded before reading the environment. A missing file is
	// not an error.
	EnvFile string
	// ConfigPaths are searched for archetype.yaml.
	ConfigPaths []string
	// Flags, when set, override configuration for every flag that was
	// changed on the command line. Flag names match config keys.
	Flags *pflag.FlagSet
}

// Load resolves configuration from defaults, an optional config file, the
// environment and command-line flags, in increasing priority.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}
	if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", opts.EnvFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range unprefixedEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetConfigName("archetype")
	v.SetConfigType("yaml")
	for _, p := range opts.ConfigPaths {
		v.AddConfigPath(p)
	}
	if len(opts.ConfigPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		for _, key := range flagKeys {
			if f := opts.Flags.Lookup(key); f != nil {
				if err := v.BindPFlag(flagConfigKey(key), f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", key, err)
				}
			}
		}
	}

	return fromViper(v)
}

// unprefixedEnv maps config keys to conventional variable names that do not
// carry the QUIZ_ prefix.
var unprefixedEnv = map[string]string{
	"smtp.host": "SMTP_HOST",
	"smtp.port": "SMTP_PORT",
	"smtp.user": "SMTP_USER",
	"smtp.pass": "SMTP_PASS",
	"smtp.to":   "MAIL_TO",
	"smtp.from": "MAIL_FROM",
}

// flagKeys lists command-line flags that override config keys.
var flagKeys = []string{"db", "storage-key", "log-level", "addr", "redis-url"}

func flagConfigKey(flag string) string {
	switch flag {
	case "addr":
		return "serve_addr"
	}
	return strings.ReplaceAll(flag, "-", "_")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage_key", quiz.DefaultStorageKey)
	v.SetDefault("db", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("redis_ttl", "0s")
	v.SetDefault("transition_ms", int(quiz.DefaultTransitionDelay/time.Millisecond))
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("results_endpoint", "")
	v.SetDefault("serve_addr", ":8080")
	v.SetDefault("smtp.port", 465)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		StorageKey:      v.GetString("storage_key"),
		DBPath:          v.GetString("db"),
		RedisURL:        v.GetString("redis_url"),
		RedisTTL:        v.GetDuration("redis_ttl"),
		TransitionDelay: time.Duration(v.GetInt("transition_ms")) * time.Millisecond,
		LogFile:         v.GetString("log_file"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		ResultsEndpoint: v.GetString("results_endpoint"),
		ServeAddr:       v.GetString("serve_addr"),
		SMTP: SMTPConfig{
			Host: v.GetString("smtp.host"),
			Port: v.GetInt("smtp.port"),
			User: v.GetString("smtp.user"),
			Pass: v.GetString("smtp.pass"),
			To:   v.GetString("smtp.to"),
			From: v.GetString("smtp.from"),
		},
	}

	if cfg.StorageKey == "" {
		cfg.StorageKey = quiz.DefaultStorageKey
	}
	if cfg.TransitionDelay <= 0 {
		cfg.TransitionDelay = quiz.DefaultTransitionDelay
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
		cfg.DBPath = p
	} else if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(cfg.DBPath), "archetype.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.LLM = resolveLLM()
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (want debug, info, warn or error)", c.LogLevel)
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP_PORT %d", c.SMTP.Port)
	}
	return nil
}

// resolveLLM returns the explicitly configured provider, falling back to
// discovery from standard API key variables.
func resolveLLM() *llm.Config {
	cfg := llm.ConfigFromEnv()
	if cfg.Provider != "" && cfg.Validate() == nil {
		return &cfg
	}
	if cfg, ok := llm.DiscoverConfig(); ok {
		return &cfg
	}
	return nil
}
