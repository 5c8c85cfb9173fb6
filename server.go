package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbabazielroy/portfolio/internal/chat"
	"github.com/mbabazielroy/portfolio/internal/config"
	"github.com/mbabazielroy/portfolio/internal/llm"
	"github.com/mbabazielroy/portfolio/internal/logging"
	"github.com/mbabazielroy/portfolio/internal/metrics"
	"github.com/mbabazielroy/portfolio/internal/recommend"
	"github.com/mbabazielroy/portfolio/internal/store"
)

// app holds everything the handlers share.
type app struct {
	cfg       *config.Config
	store     *store.Store
	metrics   *metrics.Manager
	chat      *chat.Orchestrator
	catalog   []recommend.Project
	mailer    mailer
	limiter   *ipRateLimiter
	sessions  *sessionManager
	templates *template.Template

	// completer is nil when no model is configured.
	completer llm.Completer
	breaker   *llm.Breaker
	provider  string
	model     string

	closers []io.Closer
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	sessions, err := newSessionManager(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	tmpl, err := loadTemplates()
	if err != nil {
		st.Close()
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		store:     st,
		metrics:   metrics.NewManager(metrics.WithRuntimeCollectors()),
		catalog:   Catalog,
		mailer:    newSMTPMailer(cfg),
		sessions:  sessions,
		templates: tmpl,
		closers:   []io.Closer{st},
	}
	if cfg.RateLimitPerMinute > 0 {
		a.limiter = newIPRateLimiter(cfg.RateLimitPerMinute)
	}

	llmCfg := cfg.LLM()
	completer, err := llm.NewCompleter(ctx, llmCfg)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logging.Warn().Str("provider", llmCfg.Provider).Msg("no language model configured, chat uses scripted replies")
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	default:
		if c, ok := completer.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		a.breaker = llm.NewBreaker(completer, llm.BreakerConfig{
			Name:             llmCfg.Provider,
			FailureThreshold: cfg.BreakerFailures,
			Cooldown:         cfg.BreakerCooldown,
			OnStateChange: func(name, from, to string) {
				logging.Warn().Str("breaker", name).Str("from", from).Str("to", to).Msg("llm circuit breaker state changed")
			},
		})
		a.provider = llmCfg.Provider
		a.model = modelName(completer, llmCfg.Model)
		completer = a.breaker
	}
	a.setCompleter(completer)

	if !cfg.SMTPConfigured() {
		logging.Warn().Msg("SMTP credentials not configured, contact messages are only stored")
	}
	return a, nil
}

// setCompleter swaps the model and rebuilds the orchestrator around it.
func (a *app) setCompleter(c llm.Completer) {
	a.completer = c

	opts := []chat.Option{
		chat.WithMaxResults(a.cfg.MaxRecommendations),
		chat.WithHooks(chat.Hooks{
			OnIntent: func(i chat.Intent) { a.metrics.RecordIntent(string(i)) },
			OnLLM:    a.metrics.RecordLLM,
		}),
	}
	if c != nil {
		opts = append(opts, chat.WithCompleter(c))
	}
	a.chat = chat.NewOrchestrator(a.catalog, Contact, opts...)
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), a.metrics.Middleware(), a.visitorTracking())
	r.SetHTMLTemplate(a.templates)
	r.StaticFS("/static", staticFS())

	a.setupSiteRoutes(r)
	a.setupAPIRoutes(r)
	a.setupAdminRoutes(r)
	return r
}

// runMaintenance prunes old visitor rows and idle rate limiter buckets until
// ctx is cancelled.
func (a *app) runMaintenance(ctx context.Context, every time.Duration) {
	retention := time.Duration(a.cfg.VisitorRetentionDays) * 24 * time.Hour
	prune := func() {
		removed, err := a.store.CleanupVisitors(ctx, retention)
		if err != nil {
			if ctx.Err() == nil {
				logging.Error().Err(err).Msg("visitor cleanup failed")
			}
			return
		}
		if removed > 0 {
			logging.Info().Int64("removed", removed).Int("retention_days", a.cfg.VisitorRetentionDays).Msg("privacy cleanup removed old visitor records")
		}
		if a.limiter != nil {
			a.limiter.cleanup(time.Hour)
		}
	}

	prune()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
