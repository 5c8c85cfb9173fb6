package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mbabazielroy/portfolio/internal/chat"
	"github.com/mbabazielroy/portfolio/internal/config"
	"github.com/mbabazielroy/portfolio/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:               "portfolio",
	Short:             "Portfolio site with a project recommendation assistant",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default command)",
	RunE:  runServe,
}

var (
	configPath string
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv(config.FileEnv), "YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.LoadFile(configPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           withCORS(a.router(), cfg.FrontendURL),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info().Str("addr", srv.Addr).Str("mode", gin.Mode()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		a.runMaintenance(gctx, time.Hour)
		return nil
	})

	return g.Wait()
}

// setupSiteRoutes registers the HTML pages and HTMX fragments.
func (a *app) setupSiteRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"aboutMeContent": AboutMe,
			"headline":       Headline,
			"projects":       a.catalog,
			"contact":        Contact,
			"quickPrompts":   chat.QuickPrompts,
		})
	})

	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})

	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"jobs": WorkHistory,
		})
	})

	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{
			"schools": EducationHistory,
		})
	})

	r.POST("/contact", a.handleContact)
	r.GET("/business-card.vcf", a.handleVCard)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": a.cfg.VisitorRetentionDays,
		})
	})
}

func (a *app) setupAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	if a.limiter != nil {
		api.Use(a.limiter.middleware())
	}
	api.POST("/chat", a.handleChat)
	api.POST("/recommendations", a.handleRecommendations)
	api.POST("/llm", a.handleLLMProxy)
	api.GET("/health", a.handleHealth)

	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
}
