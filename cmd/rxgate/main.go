package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rxgate/rxgate/internal/auth"
	"github.com/rxgate/rxgate/internal/config"
	"github.com/rxgate/rxgate/internal/domain/account"
	"github.com/rxgate/rxgate/internal/domain/dashboard"
	"github.com/rxgate/rxgate/internal/domain/doctor"
	"github.com/rxgate/rxgate/internal/domain/medication"
	"github.com/rxgate/rxgate/internal/domain/patient"
	"github.com/rxgate/rxgate/internal/domain/prescription"
	"github.com/rxgate/rxgate/internal/guard"
	"github.com/rxgate/rxgate/internal/platform/backend"
	"github.com/rxgate/rxgate/internal/platform/middleware"
	"github.com/rxgate/rxgate/internal/session"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "rxgate",
		Short: "Pharmacy management gateway",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the pharmacy gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	// Backend client and auth gateway
	api := backend.New(cfg.BackendURL, cfg.HTTPTimeout, backend.NewMetrics(registry), logger)
	gateway := auth.NewGateway(api, logger)

	// Session store
	ctx := context.Background()
	var store session.Store
	switch cfg.SessionStore {
	case "postgres":
		pool, perr := pgxpool.New(ctx, cfg.DatabaseURL)
		if perr != nil {
			logger.Fatal().Err(perr).Msg("failed to connect to database")
		}
		defer pool.Close()
		store, err = session.NewStorePG(ctx, pool)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare session store")
		}
	default:
		store, err = session.NewFileStore(cfg.SessionFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open session store")
		}
	}

	// Session manager: restore persisted sessions, then resolve their
	// profiles off the startup path.
	sessions := session.NewManager(store, gateway, logger)
	if _, err := sessions.Restore(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to restore sessions")
	}
	go sessions.RefreshProfiles(context.Background())

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(guard.Middleware(sessions, logger))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Domain services and handlers
	medications := medication.NewService(api)
	patients := patient.NewService(api)
	doctors := doctor.NewService(api)
	prescriptions := prescription.NewService(api)

	account.NewHandler(sessions, gateway, logger).RegisterRoutes(e)
	dashboard.NewHandler(patients, doctors, prescriptions).RegisterRoutes(e)
	medication.NewHandler(medications).RegisterRoutes(e)
	patient.NewHandler(patients).RegisterRoutes(e)
	doctor.NewHandler(doctors).RegisterRoutes(e)
	rx := prescription.NewHandler(prescriptions)
	rx.RegisterRoutes(e)
	sessions.Subscribe(rx.OnSession)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("backend", cfg.BackendURL).Msg("rxgate listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
