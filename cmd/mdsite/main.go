package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/fenrik/mdsite/internal/config"
	"github.com/fenrik/mdsite/internal/metrics"
	"github.com/fenrik/mdsite/internal/site"
	"github.com/fenrik/mdsite/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	InputDir         string `short:"i" help:"Directory containing Markdown source files"`
	OutputDir        string `short:"o" help:"Destination directory for generated HTML"`
	PostTemplate     string `help:"Template for individual post pages"`
	IndexTemplate    string `help:"Template for the main index page"`
	TagTemplate      string `short:"t" help:"Optional template for per-tag pages"`
	AllTagsTemplate  string `short:"a" help:"Optional template for the all-tags page"`
	AllPostsTemplate string `short:"p" help:"Optional template for the all-posts page"`
	NumPosts         int    `short:"n" help:"Number of latest posts on the index page"`

	Build struct {
		VerifyLinks bool `help:"Verify internal links after generation"`
		Report      bool `help:"Write build-report.json into the output directory"`
	} `cmd:"" help:"Generate the site once"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Watch struct {
		MetricsAddr string `help:"Expose Prometheus metrics on this address (e.g. :9090)"`
	} `cmd:"" help:"Rebuild the site whenever sources or templates change"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "build":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runBuild(cfg); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	case "watch":
		cfg, err := loadConfig()
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runWatch(cfg); err != nil && err != context.Canceled {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(CLI.Config, config.Overrides{
		InputDir:         CLI.InputDir,
		OutputDir:        CLI.OutputDir,
		PostTemplate:     CLI.PostTemplate,
		IndexTemplate:    CLI.IndexTemplate,
		TagTemplate:      CLI.TagTemplate,
		AllTagsTemplate:  CLI.AllTagsTemplate,
		AllPostsTemplate: CLI.AllPostsTemplate,
		NumPosts:         CLI.NumPosts,
	})
}

func runBuild(cfg *config.Config) error {
	gen := site.NewGenerator(cfg).
		SetVerifyLinks(CLI.Build.VerifyLinks).
		SetPersistReport(CLI.Build.Report)

	report, err := gen.Generate(context.Background())
	if err != nil {
		return err
	}
	if report.Outcome == site.OutcomePartial {
		slog.Warn("Build completed with skipped documents",
			"skipped", report.SkippedDocuments,
			"warnings", len(report.Warnings))
	}
	return nil
}

func runWatch(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gen := site.NewGenerator(cfg)

	if CLI.Watch.MetricsAddr != "" {
		reg := prom.NewRegistry()
		gen.SetRecorder(metrics.NewPrometheusRecorder(reg))

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		srv := &http.Server{Addr: CLI.Watch.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("Serving metrics", "addr", CLI.Watch.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	buildOnce := func(ctx context.Context) error {
		_, err := gen.Generate(ctx)
		return err
	}

	w, err := watch.New(buildOnce,
		cfg.InputDir,
		cfg.PostTemplate,
		cfg.IndexTemplate,
		cfg.TagTemplate,
		cfg.AllTagsTemplate,
		cfg.AllPostsTemplate,
	)
	if err != nil {
		return err
	}

	slog.Info("Watching for changes", "input", cfg.InputDir)
	return w.Run(ctx)
}
