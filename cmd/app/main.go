package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pathmed-service/internal/config"
	availabilityGet "pathmed-service/internal/http-server/handlers/availability/get"
	consultationCreate "pathmed-service/internal/http-server/handlers/consultations/create"
	consultationGet "pathmed-service/internal/http-server/handlers/consultations/get"
	consultationStatus "pathmed-service/internal/http-server/handlers/consultations/status"
	patientGet "pathmed-service/internal/http-server/handlers/patients/get"
	patientRegister "pathmed-service/internal/http-server/handlers/patients/register"
	patientUpdate "pathmed-service/internal/http-server/handlers/patients/update"
	professionalGet "pathmed-service/internal/http-server/handlers/professionals/get"
	specialtyGet "pathmed-service/internal/http-server/handlers/specialties/get"
	"pathmed-service/internal/lock"
	svc "pathmed-service/internal/service"
	"pathmed-service/internal/storage/postgres"
	slogpretty "pathmed-service/pkg/handlers/slogPretty"
	"pathmed-service/pkg/middleware/mwLogger"
	"pathmed-service/pkg/middleware/ratelimit"
	"pathmed-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env), slog.String("timezone", cfg.Timezone))
	log.Debug("Debug messages are enabled")

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Failed to load timezone", sl.Err(err))
		os.Exit(1)
	}

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cfg.StoragePath); err != nil {
			log.Error("Failed to apply migrations", sl.Err(err))
			os.Exit(1)
		}
		log.Info("Migrations applied")
	}

	storage, err := postgres.New(cfg.StoragePath, postgres.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		QueryTimeout:    cfg.QueryTimeout,
	})
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		_ = storage.Close()
		os.Exit(1)
	}

	service := svc.NewService(storage, locker, loc)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	if cfg.TrustForwarded {
		router.Use(middleware.RealIP)
	}
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(ratelimit.New(log, cfg.RPS, cfg.Burst))
	router.Use(CORS)

	// Availability
	router.Get("/disponibilidade", availabilityGet.New(log, service))

	// Catalog
	router.Get("/especialidades", specialtyGet.New(log, service))
	router.Get("/profissionais", professionalGet.New(log, service))

	// Patients
	router.Post("/pacientes", patientRegister.New(log, service))
	router.Get("/pacientes", patientGet.New(log, service))
	router.Get("/pacientes/{id}", patientGet.New(log, service))
	router.Put("/pacientes/{id}", patientUpdate.New(log, service))

	// Consultations
	router.Post("/consultas", consultationCreate.New(log, service))
	router.Get("/consultas", consultationGet.New(log, service))
	router.Get("/consultas/{id}", consultationGet.New(log, service))
	router.Put("/consultas/{id}/status", consultationStatus.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
