package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nigaran-engine/internal/config"
	"nigaran-engine/internal/events"
	"nigaran-engine/internal/httpapi"
	"nigaran-engine/internal/notify"
	"nigaran-engine/internal/resource"
	"nigaran-engine/internal/scheduler"
	"nigaran-engine/internal/schema"
	"nigaran-engine/internal/secrets"
	"nigaran-engine/internal/session"
	"nigaran-engine/internal/store"
	"nigaran-engine/internal/telemetry"
	"nigaran-engine/internal/upload"
)

const (
	sessionSweepEvery = 10 * time.Minute
	limiterPruneEvery = 10 * time.Minute
	limiterIdle       = 30 * time.Minute
	checkpointEvery   = time.Hour
)

// paths locates the files serve was started with.
type paths struct {
	DataDir string
	CfgPath string
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, err := opts.logger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			app := fx.New(serveModule(paths{DataDir: opts.dataDir, CfgPath: path}, cfg, log))
			if err := app.Err(); err != nil {
				return err
			}

			startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return err
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			select {
			case s := <-sig:
				log.Info("shutting down", zap.String("signal", s.String()))
			case <-app.Done():
			}

			stopCtx, cancelStop := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancelStop()
			return app.Stop(stopCtx)
		},
	}
}

func serveModule(p paths, cfg config.Config, log *zap.Logger) fx.Option {
	return fx.Options(
		fx.Supply(p, cfg, log),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			newWorkers,
			newStore,
			newEvents,
			newNotifier,
			newSessionStore,
			newGate,
			newEngine,
			newUploader,
			newFormLimiter,
			newHandler,
		),
		fx.Invoke(
			startTelemetry,
			scheduleCheckpoints,
			runServer,
		),
	)
}

// workers owns the background loops; they all stop with the app.
type workers struct {
	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
}

func newWorkers(lc fx.Lifecycle) *workers {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	w := &workers{ctx: ctx, cancel: cancel, g: g}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		w.cancel()
		return w.g.Wait()
	}})
	return w
}

func (w *workers) Go(fn func(ctx context.Context)) {
	w.g.Go(func() error {
		fn(w.ctx)
		return nil
	})
}

func startTelemetry(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
	shutdown, err := telemetry.Init(context.Background(), telemetry.Options{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return err
	}
	if cfg.Telemetry.OTLPEndpoint != "" {
		log.Info("tracing enabled", zap.String("endpoint", cfg.Telemetry.OTLPEndpoint))
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return nil
}

func newStore(lc fx.Lifecycle, p paths, cfg config.Config, log *zap.Logger) (*store.DB, error) {
	db, err := store.Open(store.Options{
		Driver: cfg.Store.Driver,
		Path:   cfg.DBPath(p.DataDir),
		DSN:    cfg.Store.DSN,
	}, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})
	return db, nil
}

func scheduleCheckpoints(w *workers, db *store.DB, log *zap.Logger) {
	if db.Dialect != store.SQLite {
		return
	}
	w.Go(func(ctx context.Context) {
		scheduler.Every(ctx, checkpointEvery, "wal-checkpoint", log, db.Checkpoint)
	})
}

// newEvents fans record events out to the SSE hub and, when configured, NATS.
func newEvents(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*events.Hub, events.Publisher, error) {
	hub := events.NewHub()
	pub := events.Multi{hub}
	if cfg.Events.NATSURL != "" {
		sink, err := events.NewNATSSink(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, log)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			sink.Close()
			return nil
		}})
		pub = append(pub, sink)
	}
	return hub, pub, nil
}

func newNotifier(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (notify.Notifier, error) {
	m, err := notify.New(notify.Options{
		Driver:         cfg.Notify.Driver,
		From:           cfg.Notify.From,
		CareerFrom:     cfg.Notify.CareerFrom,
		APIURL:         cfg.Notify.APIURL,
		APIKey:         secrets.Lookup(secrets.MailAPIKey, ""),
		AMQPURL:        cfg.Notify.AMQPURL,
		AMQPExchange:   cfg.Notify.AMQPExchange,
		AMQPRoutingKey: cfg.Notify.AMQPRoutingKey,
		Timeout:        cfg.Notify.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return m.Close() }})
	return m, nil
}

func newSessionStore(lc fx.Lifecycle, w *workers, cfg config.Config, log *zap.Logger) session.Store {
	if cfg.Session.Backend == "redis" {
		rs := session.NewRedisStore(session.RedisOptions{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		lc.Append(fx.Hook{
			OnStart: rs.Ping,
			OnStop:  func(context.Context) error { return rs.Close() },
		})
		return rs
	}
	ms := session.NewMemoryStore()
	w.Go(func(ctx context.Context) { ms.Run(ctx, sessionSweepEvery, log) })
	return ms
}

func newGate(st session.Store, cfg config.Config, log *zap.Logger) *session.Gate {
	password := secrets.Lookup(secrets.AdminPassword, cfg.Admin.Password)
	if password == "" {
		log.Warn("no admin password configured; management routes will reject every login",
			zap.String("env", secrets.EnvName(secrets.AdminPassword)))
	}
	return session.NewGate(st, session.Credentials{
		Email:    cfg.Admin.Email,
		Password: password,
	}, cfg.Admin.SessionTTL, log)
}

func newEngine(db *store.DB, n notify.Notifier, pub events.Publisher, log *zap.Logger) *resource.Engine {
	return resource.NewEngine(resource.Deps{
		DB:       db,
		Schema:   schema.New(),
		Notifier: n,
		Events:   pub,
		Logger:   log,
	})
}

func newUploader(db *store.DB, cfg config.Config, log *zap.Logger) *upload.DBUploader {
	return upload.NewDBUploader(db.ResumeFiles(), cfg.Upload.PublicBaseURL, cfg.Upload.MaxBytes, log)
}

func newFormLimiter(w *workers, cfg config.Config, log *zap.Logger) *httpapi.ClientLimiter {
	l := httpapi.NewClientLimiter(cfg.HTTP.FormRatePerMin, cfg.HTTP.FormBurst)
	w.Go(func(ctx context.Context) {
		scheduler.Every(ctx, limiterPruneEvery, "limiter-prune", log, func(context.Context) error {
			if n := l.Prune(limiterIdle); n > 0 {
				log.Debug("pruned idle clients", zap.Int("clients", n))
			}
			return nil
		})
	})
	return l
}

type handlerIn struct {
	fx.In

	Paths   paths
	Cfg     config.Config
	DB      *store.DB
	Engine  *resource.Engine
	Gate    *session.Gate
	Files   *upload.DBUploader
	Hub     *events.Hub
	Limiter *httpapi.ClientLimiter
	Log     *zap.Logger
}

func newHandler(in handlerIn) http.Handler {
	var cfgVal atomic.Value
	cfgVal.Store(in.Cfg)

	return httpapi.NewHandler(httpapi.Deps{
		Engine:         in.Engine,
		Gate:           in.Gate,
		Uploader:       in.Files,
		Resumes:        in.Files,
		Hub:            in.Hub,
		SecureCookies:  strings.HasPrefix(in.Cfg.Upload.PublicBaseURL, "https://"),
		MaxUploadBytes: in.Cfg.Upload.MaxBytes,
		Form:           in.Limiter,
		CfgVal:         &cfgVal,
		UserCfgPath:    in.Paths.CfgPath,
		LoadCfg:        func() (config.Config, error) { return config.Load(in.Paths.CfgPath) },
		Checkpoint:     in.DB.Checkpoint,
		Ping:           in.DB.Ping,
		Logger:         in.Log,
	})
}

func runServer(lc fx.Lifecycle, sd fx.Shutdowner, cfg config.Config, h http.Handler, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("engine listening",
				zap.String("addr", "http://"+ln.Addr().String()),
				zap.String("store", cfg.Store.Driver),
			)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: srv.Shutdown,
	})
}
