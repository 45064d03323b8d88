package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/app"
	"github.com/abhisek/archetype/internal/config"
	"github.com/abhisek/archetype/internal/insight"
	"github.com/abhisek/archetype/internal/llm"
	"github.com/abhisek/archetype/internal/logging"
	"github.com/abhisek/archetype/internal/notify"
	"github.com/abhisek/archetype/internal/store"
)

const (
	insightTimeout   = 40 * time.Second
	redisDialTimeout = 3 * time.Second
)

// env bundles the resources shared by commands. store is nil when the
// database could not be opened.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	redis  *redis.Client
}

// logTarget selects where an env logs.
type logTarget int

const (
	logToFile logTarget = iota
	logToStderr
)

// setup loads configuration, builds the logger and opens the database.
func setup(cmd *cobra.Command, target logTarget) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.LogLevel}
	if target == logToFile {
		logOpts.File = cfg.LogFile
	}
	logger, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, store: openStore(cfg.DBPath, logger)}, nil
}

// openStore opens the database, returning nil when it is unavailable.
func openStore(path string, logger *zap.Logger) *store.Store {
	st, err := store.Open(path)
	if err != nil {
		logger.Warn("database unavailable, progress and history will not be saved",
			zap.String("path", path), zap.Error(err))
		return nil
	}
	return st
}

func (e *env) Close() {
	if e.redis != nil {
		e.redis.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
	e.logger.Sync()
}

// requireStore fails commands that only read the database.
func (e *env) requireStore() (*store.Store, error) {
	if e.store == nil {
		return nil, fmt.Errorf("open store %s: database unavailable", e.cfg.DBPath)
	}
	return e.store, nil
}

// results returns the history repo, or nil without a database.
func (e *env) results() app.ResultStore {
	if e.store == nil {
		return nil
	}
	return e.store.Results()
}

// persistence returns the session store: redis when configured, else the
// sqlite KV. An unreachable backend degrades to memory.
func (e *env) persistence(ctx context.Context) *store.Persistence {
	if e.cfg.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		defer cancel()
		client, err := store.DialRedis(dialCtx, e.cfg.RedisURL)
		if err == nil {
			e.redis = client
			e.logger.Info("session store: redis")
			return store.NewPersistence(store.NewRedisKV(client, e.cfg.RedisTTL), e.logger)
		}
		e.logger.Warn("redis unavailable, keeping session in memory", zap.Error(err))
		return store.NewPersistence(store.NewMemoryKV(), e.logger)
	}
	if e.store == nil {
		e.logger.Warn("no database, keeping session in memory")
		return store.NewPersistence(store.NewMemoryKV(), e.logger)
	}
	return store.NewPersistence(e.store.KV(), e.logger)
}

// dispatcher returns the configured result sender, or nil.
func (e *env) dispatcher() notify.Dispatcher {
	if e.cfg.ResultsEndpoint != "" {
		return notify.NewClient(e.cfg.ResultsEndpoint, nil)
	}
	if e.cfg.SMTP.Configured() {
		return notify.NewService(mailerFor(e.cfg.SMTP), e.logger)
	}
	return nil
}

func mailerFor(c config.SMTPConfig) *notify.SMTPMailer {
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host: c.Host,
		Port: c.Port,
		User: c.User,
		Pass: c.Pass,
		To:   c.To,
		From: c.Sender(),
	})
}

// insight returns the narrative service, or nil when no LLM is configured.
func (e *env) insight(ctx context.Context) *insight.Service {
	if e.cfg.LLM == nil {
		return nil
	}
	provider, err := llm.NewProvider(ctx, *e.cfg.LLM, e.logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		return nil
	}
	return insight.NewService(provider, insightTimeout)
}
