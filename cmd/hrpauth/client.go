package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	hrpauth "github.com/hrpnet/hrpauth"
	"github.com/hrpnet/hrpauth/session"
)

// zapSink forwards SDK flow events to the structured logger.
type zapSink struct {
	log *zap.SugaredLogger
}

func (s zapSink) Emit(_ context.Context, event hrpauth.Event) {
	fields := []any{"flow", event.Flow, "success", event.Success}
	for key, value := range event.Metadata {
		fields = append(fields, key, value)
	}
	if event.Error != "" {
		fields = append(fields, "error", event.Error)
	}
	s.log.Debugw("flow event", fields...)
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

// newClient loads configuration, picks the session backend, and builds the
// SDK client. The base URL is resolved here, once per invocation.
func newClient() (*hrpauth.Client, *zap.SugaredLogger, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Backend.BaseURL == "" {
		return nil, nil, fmt.Errorf("no backend base URL; set backend.base_url in %s or pass --base-url", configPath())
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	var backend session.Backend
	switch cfg.Session.Store {
	case "", "file":
		path, err := sessionPath(cfg)
		if err != nil {
			return nil, nil, err
		}
		backend = session.NewFileBackend(path)
	case "redis":
		backend = session.NewRedisBackend(
			redis.NewClient(&redis.Options{Addr: cfg.Session.Redis.Addr}),
			cfg.Session.Redis.Prefix,
		)
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	sdkCfg := hrpauth.DefaultConfig()
	sdkCfg.Backend.BaseURL = cfg.Backend.BaseURL
	sdkCfg.Backend.LoginTimeout = seconds(cfg.Backend.LoginTimeoutSeconds)
	sdkCfg.Verification.ResendCooldown = seconds(cfg.Verification.ResendCooldownSeconds)

	client, err := hrpauth.New().
		WithConfig(sdkCfg).
		WithSessionBackend(backend).
		WithEventSink(zapSink{log: log}).
		Build()
	if err != nil {
		return nil, nil, err
	}
	return client, log, nil
}

// promptLine reads one line from in after printing the prompt to out. The
// reader is shared across a command's prompts; a fresh reader per prompt
// would buffer ahead and drop the lines behind it when input is piped.
func promptLine(out io.Writer, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
