package httpapi

import (
	"context"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"nigaran-engine/internal/config"
	"nigaran-engine/internal/events"
	"nigaran-engine/internal/resource"
	"nigaran-engine/internal/session"
	"nigaran-engine/internal/store"
	"nigaran-engine/internal/upload"
)

// ResumeSource serves stored resumes back by key.
type ResumeSource interface {
	Open(ctx context.Context, key string) (store.ResumeFile, io.ReadSeeker, error)
}

type Deps struct {
	Engine   *resource.Engine
	Gate     *session.Gate
	Uploader upload.Uploader
	Resumes  ResumeSource

	Hub *events.Hub

	// SecureCookies marks the session cookie HTTPS-only.
	SecureCookies bool
	MaxUploadBytes int64

	// Form throttles public submissions per client.
	Form *ClientLimiter

	// CfgVal stores the live config.Config.
	CfgVal      *atomic.Value
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Checkpoint flushes the store's write-ahead log; nil when unsupported.
	Checkpoint func(ctx context.Context) error
	// Ping checks the store for /health.
	Ping func(ctx context.Context) error

	Logger *zap.Logger
}

func (d Deps) config() config.Config {
	if d.CfgVal == nil {
		return config.Default()
	}
	if cfg, ok := d.CfgVal.Load().(config.Config); ok {
		return cfg
	}
	return config.Default()
}
