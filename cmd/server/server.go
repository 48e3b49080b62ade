package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datadash/backend/internal/api"
	"github.com/datadash/backend/internal/config"
	"github.com/datadash/backend/internal/logger"
	"github.com/datadash/backend/internal/session"
	"github.com/datadash/backend/internal/storage"
	"github.com/datadash/backend/internal/upload"
	"github.com/datadash/backend/internal/web"
	"github.com/fatih/color"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// application bundles the wired server components.
type application struct {
	cfg      *config.AppConfig
	log      *zap.Logger
	sessions *session.Manager
	payloads *storage.MemoryStore
	echo     *echo.Echo
	embedded bool
}

func newApplication(cfg *config.AppConfig, log *zap.Logger) (*application, error) {
	ids, err := upload.NewIDGenerator(cfg.Upload.IDStrategy)
	if err != nil {
		return nil, err
	}

	payloads := storage.NewMemoryStore()
	uploadLog := log.Named("upload")
	sessions := session.NewManager(session.Options{
		Timeout:         cfg.SessionTimeout(),
		CleanupInterval: cfg.CleanupInterval(),
		MaxSessions:     cfg.Session.MaxSessions,
		Logger:          log.Named("session"),
		NewUploads: func(onChange func()) *upload.Manager {
			return upload.NewManager(upload.Options{
				Delay:    cfg.ProcessingDelay(),
				IDs:      ids,
				Store:    payloads,
				Logger:   uploadLog,
				OnChange: onChange,
			})
		},
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetupMiddleware(e, api.MiddlewareConfig{
		EnableCORS:       cfg.Server.EnableCORS,
		AllowOrigins:     cfg.AllowedOrigins(),
		BodyLimit:        cfg.Server.BodyLimit,
		RequestLogging:   cfg.Advanced.EnableRequestLogging,
		Compression:      cfg.Advanced.EnableCompression,
		CompressionLevel: cfg.Advanced.CompressionLevel,
		ShowErrorDetails: cfg.Advanced.Development,
	}, log.Named("http"))

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Sessions: sessions,
		Payloads: payloads,
		Logger:   log.Named("ws"),
		Version:  Version,
	}))

	// Register embedded frontend if available
	embedded := web.HasEmbeddedFiles()
	if embedded {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn("failed to register static routes", zap.Error(err))
			embedded = false
		}
	}

	return &application{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		payloads: payloads,
		echo:     e,
		embedded: embedded,
	}, nil
}

func runServe(ctx context.Context, opts *serveOptions, out io.Writer) error {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := logger.New(logger.Options{
		Level:       cfg.Advanced.LogLevel,
		FilePath:    cfg.Advanced.LogFile,
		Development: cfg.Advanced.Development,
	})
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	app, err := newApplication(cfg, log)
	if err != nil {
		return err
	}

	// Configure server with settings from config
	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(out, cfg, opts.ConfigPath, app.embedded)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.echo.StartServer(srv)
	}()
	log.Info("server started", zap.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Int("sessions", app.sessions.Count()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.echo.Shutdown(shutdownCtx)
}

func printBanner(out io.Writer, cfg *config.AppConfig, configPath string, embedded bool) {
	mode := "API only"
	if embedded {
		mode = "Embedded frontend"
	}

	frame := color.New(color.FgCyan)
	title := color.New(color.FgCyan, color.Bold)
	value := color.New(color.FgWhite)

	frame.Fprintln(out)
	frame.Fprintln(out, "╔═══════════════════════════════════════════════════════════╗")
	title.Fprintln(out, "║           Data Dashboard Server                           ║")
	frame.Fprintln(out, "╠═══════════════════════════════════════════════════════════╣")
	value.Fprintf(out, "║  Version:    %-45s║\n", Version)
	value.Fprintf(out, "║  Build Time: %-45s║\n", BuildTime)
	value.Fprintf(out, "║  Mode:       %-45s║\n", mode)
	frame.Fprintln(out, "╠═══════════════════════════════════════════════════════════╣")
	value.Fprintf(out, "║  Config:    %-46s║\n", configPath)
	value.Fprintf(out, "║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	value.Fprintf(out, "║  Delay:     %-46s║\n", cfg.ProcessingDelay())
	frame.Fprintln(out, "╚═══════════════════════════════════════════════════════════╝")
	frame.Fprintln(out)

	if embedded {
		color.New(color.FgGreen).Fprintf(out, "Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}
}
