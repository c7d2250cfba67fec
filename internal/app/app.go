// Package app wires configuration into the services shared by the HTTP
// server and the Lambda entry points.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"loan-affordability-engine/internal/config"
	"loan-affordability-engine/internal/handlers"
	"loan-affordability-engine/internal/services/affordability"
	"loan-affordability-engine/internal/services/assessor"
	"loan-affordability-engine/internal/services/cache"
	"loan-affordability-engine/internal/services/database"
	s3service "loan-affordability-engine/internal/services/s3"
	"loan-affordability-engine/internal/services/ses"
	"loan-affordability-engine/internal/utils"
)

// App holds the wired services. Optional dependencies are nil when not
// configured or unreachable.
type App struct {
	Config   *config.Config
	Engine   *affordability.Engine
	Assessor *assessor.Assessor
	Quotes   cache.QuoteCache
	DB       *database.DB
	S3       *s3service.Service

	checks  map[string]handlers.HealthCheck
	closers []func()
}

// Options selects which optional dependencies to connect.
type Options struct {
	Database bool
	S3       bool
	Cache    bool
}

// New loads the services described by cfg. Failures to reach optional
// dependencies are logged and leave them disabled.
func New(ctx context.Context, cfg *config.Config, opts Options) *App {
	log := utils.GetLogger()

	a := &App{
		Config: cfg,
		Engine: affordability.NewEngine(cfg.Policy()),
		checks: map[string]handlers.HealthCheck{},
	}

	if opts.Cache {
		a.Quotes = a.newQuoteCache(ctx)
	}

	if opts.Database {
		db, err := database.Open(ctx, cfg)
		if err != nil {
			log.Warn("Applicant database unavailable, stored batches disabled", zap.Error(err))
		} else {
			a.DB = db
			a.checks["database"] = db.Ping
			a.closers = append(a.closers, db.Close)
		}
	}

	if opts.S3 && cfg.S3Bucket != "" {
		svc, err := s3service.NewService(ctx, cfg.S3Bucket)
		if err != nil {
			log.Warn("S3 unavailable, batch uploads disabled", zap.Error(err))
		} else {
			a.S3 = svc
		}
	}

	assessorOpts := []assessor.Option{assessor.WithWebhook(cfg.ReportWebhookURL)}
	if cfg.NotifyApplicants && cfg.SESSenderEmail != "" {
		notifier, err := ses.NewService(ctx, cfg.SESSenderEmail)
		if err != nil {
			log.Warn("SES unavailable, applicant notifications disabled", zap.Error(err))
		} else {
			assessorOpts = append(assessorOpts, assessor.WithNotifier(notifier))
		}
	}
	a.Assessor = assessor.New(a.Engine, assessorOpts...)

	log.Info("Services initialized",
		zap.Float64("search_income_multiple", cfg.Policy().SearchIncomeMultiple),
		zap.Bool("database", a.DB != nil),
		zap.Bool("s3", a.S3 != nil),
		zap.Bool("quote_cache", a.Quotes != nil),
		zap.Bool("notifications", cfg.NotifyApplicants && cfg.SESSenderEmail != ""),
	)

	return a
}

func (a *App) newQuoteCache(ctx context.Context) cache.QuoteCache {
	if a.Config.RedisAddr == "" {
		return cache.NewLRU(a.Config.CacheSize, a.Config.CacheTTL)
	}

	rdb := cache.NewRedis(a.Config.RedisAddr, a.Config.CacheTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		utils.GetLogger().Warn("Redis unreachable, using in-process quote cache",
			zap.String("addr", a.Config.RedisAddr),
			zap.Error(err),
		)
		_ = rdb.Close()
		return cache.NewLRU(a.Config.CacheSize, a.Config.CacheTTL)
	}

	a.checks["cache"] = rdb.Ping
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	return rdb
}

// AssessHandler builds the API handler over the wired services.
func (a *App) AssessHandler() *handlers.AssessHandler {
	var opts []handlers.AssessOption
	if a.Quotes != nil {
		opts = append(opts, handlers.WithQuoteCache(a.Quotes))
	}
	if a.DB != nil {
		opts = append(opts, handlers.WithApplicantSource(database.NewApplicantRepository(a.DB)))
	}
	if a.S3 != nil {
		opts = append(opts, handlers.WithUploads(a.S3))
	}
	return handlers.NewAssessHandler(a.Engine, a.Assessor, opts...)
}

// HealthHandler builds a health handler probing the connected dependencies.
func (a *App) HealthHandler() *handlers.HealthHandler {
	return handlers.NewHealthHandler(a.Config.Stage, a.checks)
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
