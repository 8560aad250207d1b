package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/YodaBikarbona/school-book-server/api/routes"
	"github.com/YodaBikarbona/school-book-server/internal/absences"
	"github.com/YodaBikarbona/school-book-server/internal/accounts"
	"github.com/YodaBikarbona/school-book-server/internal/classes"
	"github.com/YodaBikarbona/school-book-server/internal/events"
	"github.com/YodaBikarbona/school-book-server/internal/grades"
	"github.com/YodaBikarbona/school-book-server/internal/subjects"
	"github.com/YodaBikarbona/school-book-server/pkg/config"
	"github.com/YodaBikarbona/school-book-server/pkg/db"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
	"github.com/YodaBikarbona/school-book-server/pkg/mailer"
	"github.com/YodaBikarbona/school-book-server/pkg/metrics"
	"github.com/YodaBikarbona/school-book-server/pkg/migrate"
	"github.com/YodaBikarbona/school-book-server/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	accountRepo := accounts.NewRepository(dbClient.DB())

	accountService, err := accounts.NewService(accounts.ServiceParams{
		TxRunner: dbClient,
		Repo:     accountRepo,
		Notifier: mailer.WithMetrics(mailer.New(cfg.Mail), httpMetrics),
		JWT:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

	referenceService, err := accounts.NewReferenceService(accountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reference service", err)
		os.Exit(1)
	}
	subjectService, err := subjects.NewService(subjects.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create subject service", err)
		os.Exit(1)
	}
	classService, err := classes.NewService(classes.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create class service", err)
		os.Exit(1)
	}
	gradeService, err := grades.NewService(grades.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create grade service", err)
		os.Exit(1)
	}
	absenceService, err := absences.NewService(absences.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create absence service", err)
		os.Exit(1)
	}
	eventService, err := events.NewService(events.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create event service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, accountRepo, httpMetrics, promRegistry, routes.Services{
		Accounts:  accountService,
		Reference: referenceService,
		Subjects:  subjectService,
		Classes:   classService,
		Grades:    gradeService,
		Absences:  absenceService,
		Events:    eventService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
