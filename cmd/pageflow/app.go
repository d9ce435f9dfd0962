package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/catalogs"
	"github.com/aretw0/pageflow/internal/config"
	"github.com/aretw0/pageflow/internal/logging"
	"github.com/aretw0/pageflow/pkg/adapters/file"
	"github.com/aretw0/pageflow/pkg/adapters/loam"
	"github.com/aretw0/pageflow/pkg/adapters/memory"
	"github.com/aretw0/pageflow/pkg/adapters/mqtt"
	"github.com/aretw0/pageflow/pkg/adapters/postgres"
	"github.com/aretw0/pageflow/pkg/adapters/process"
	"github.com/aretw0/pageflow/pkg/adapters/redis"
	"github.com/aretw0/pageflow/pkg/analytics"
	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/locale"
	"github.com/aretw0/pageflow/pkg/observability"
	"github.com/aretw0/pageflow/pkg/persistence/middleware"
	"github.com/aretw0/pageflow/pkg/ports"
	"github.com/aretw0/pageflow/pkg/registry"
	"github.com/aretw0/pageflow/pkg/session"
)

// app owns the dependency graph of one command invocation.
type app struct {
	di      *do.Injector
	cfg     *config.Config
	logger  *slog.Logger
	closers []io.Closer
}

// newApp loads the config and registers the providers. Services are built on first use.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.NewFromConfig(cfg.Log)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a := &app{di: do.New(), cfg: cfg, logger: logger, closers: []io.Closer{closer}}

	do.ProvideValue(a.di, cfg)
	do.ProvideValue(a.di, logger)
	do.Provide(a.di, a.newLoader)
	do.Provide(a.di, a.newMetrics)
	do.Provide(a.di, a.newEngine)
	do.Provide(a.di, a.newStore)
	do.Provide(a.di, a.newSessions)
	do.Provide(a.di, a.newSink)
	do.Provide(a.di, a.newRegistry)
	do.Provide(a.di, a.newConversation)

	return a, nil
}

// Close releases every opened resource, newest first.
func (a *app) Close() {
	if err := a.di.Shutdown(); err != nil {
		a.logger.Warn("shutdown failed", "err", err)
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
}

func (a *app) engine() (*pageflow.Engine, error) {
	return do.Invoke[*pageflow.Engine](a.di)
}

func (a *app) conversation() (*conversation.Service, error) {
	return do.Invoke[*conversation.Service](a.di)
}

func (a *app) sessions() (*session.Manager, error) {
	return do.Invoke[*session.Manager](a.di)
}

func (a *app) metrics() (*observability.Metrics, error) {
	return do.Invoke[*observability.Metrics](a.di)
}

func (a *app) newLoader(i *do.Injector) (ports.CatalogLoader, error) {
	switch a.cfg.Catalog.Source {
	case "dir":
		return file.NewDirLoader(a.cfg.Catalog.Path), nil
	case "loam":
		return loam.Open(a.cfg.Catalog.Path)
	default:
		return catalogs.Clinic(), nil
	}
}

func (a *app) newMetrics(i *do.Injector) (*observability.Metrics, error) {
	return observability.NewMetrics(prometheus.NewRegistry()), nil
}

func (a *app) newEngine(i *do.Injector) (*pageflow.Engine, error) {
	loader := do.MustInvoke[ports.CatalogLoader](i)

	bundle, err := locale.NewBundle()
	if err != nil {
		return nil, err
	}
	for _, f := range a.cfg.Locale.Files {
		if err := bundle.LoadFile(f); err != nil {
			return nil, err
		}
	}

	opts := []pageflow.Option{
		pageflow.WithLoader(loader),
		pageflow.WithLogger(a.logger),
		pageflow.WithLocalizer(bundle.Localizer(a.cfg.Locale.Language)),
		pageflow.WithName(a.cfg.Catalog.Source),
	}
	if a.cfg.Catalog.Entry != "" {
		opts = append(opts, pageflow.WithEntryPage(a.cfg.Catalog.Entry))
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, pageflow.WithLifecycleHooks(do.MustInvoke[*observability.Metrics](i).Hooks()))
	}
	return pageflow.New(opts...)
}

func (a *app) newStore(i *do.Injector) (ports.ContextStore, error) {
	switch a.cfg.Session.Store {
	case "file":
		return file.NewStore(a.cfg.Session.Dir), nil
	case "redis":
		opts := []redis.Option{redis.WithTTL(a.cfg.Session.TTL)}
		if a.cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(a.cfg.Redis.Prefix))
		}
		store := redis.New(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB, opts...)
		if err := store.Ping(context.Background()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis unreachable at %s: %w", a.cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		return memory.NewStore(), nil
	}
}

func (a *app) newSessions(i *do.Injector) (*session.Manager, error) {
	store := do.MustInvoke[ports.ContextStore](i)
	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithLockTTL(a.cfg.Session.LockTTL),
	}
	if rs, ok := store.(*redis.Store); ok {
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), "pageflow:")))
	}

	mws, err := a.storeMiddlewares()
	if err != nil {
		return nil, err
	}
	return session.NewManager(middleware.Chain(store, mws...), opts...), nil
}

// storeMiddlewares masks PII first, then encrypts what is left.
func (a *app) storeMiddlewares() ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(a.cfg.Session.PIIKeys) > 0 {
		pii, err := middleware.NewPIIMiddleware(a.cfg.Session.PIIKeys)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if a.cfg.Session.EncryptionKey != "" {
		enc := middleware.EncryptionConfig{}
		key, err := middleware.ParseKey(a.cfg.Session.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("session.encryption_key: %w", err)
		}
		enc.ActiveKey = key
		for _, k := range a.cfg.Session.FallbackKeys {
			fk, err := middleware.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("session.fallback_keys: %w", err)
			}
			enc.FallbackKeys = append(enc.FallbackKeys, fk)
		}
		mw, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

func (a *app) newSink(i *do.Injector) (ports.AnalyticsSink, error) {
	var sinks analytics.Multi
	for _, name := range a.cfg.Analytics.Sinks {
		switch name {
		case "log":
			sinks = append(sinks, analytics.NewLogSink(a.logger))
		case "mqtt":
			m := a.cfg.Analytics.MQTT
			sink, err := mqtt.Dial(mqtt.Config{
				BrokerURL:   m.BrokerURL,
				ClientID:    m.ClientID,
				TopicPrefix: m.TopicPrefix,
				QoS:         m.QoS,
				Timeout:     m.Timeout,
			})
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, sink)
			sinks = append(sinks, sink)
		case "postgres":
			sink, err := postgres.Open(context.Background(), a.cfg.Analytics.Postgres.DSN)
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, sink)
			sinks = append(sinks, sink)
		}
	}
	if len(sinks) == 0 {
		return analytics.Nop{}, nil
	}
	return sinks, nil
}

func (a *app) newRegistry(i *do.Injector) (*registry.Registry, error) {
	reg := registry.NewRegistry()
	if a.cfg.Tools.File == "" {
		return reg, nil
	}
	tools, err := process.LoadTools(a.cfg.Tools.File)
	if err != nil {
		return nil, err
	}
	process.NewRunner(
		process.WithRegistry(tools),
		process.WithBaseDir(a.cfg.Tools.Dir),
		process.WithLogger(a.logger),
	).Install(reg)
	a.logger.Debug("process tools installed", "functions", reg.Functions(), "flows", reg.Flows())
	return reg, nil
}

func (a *app) newConversation(i *do.Injector) (*conversation.Service, error) {
	eng := do.MustInvoke[*pageflow.Engine](i)
	return conversation.New(eng, do.MustInvoke[*session.Manager](i),
		conversation.WithRegistry(do.MustInvoke[*registry.Registry](i)),
		conversation.WithAnalytics(do.MustInvoke[ports.AnalyticsSink](i)),
		conversation.WithLogger(a.logger),
	), nil
}
