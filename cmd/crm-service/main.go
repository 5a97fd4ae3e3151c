package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-service/internal/config"
	"crm-service/internal/geocode"
	httphandler "crm-service/internal/http"
	"crm-service/internal/logger"
	"crm-service/internal/model"
	"crm-service/internal/repository"
	"crm-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	var seedCustomers []model.Customer
	if cfg.Seed.Enabled {
		seedCustomers = repository.SeedCustomers(time.Now().UTC())
	}

	customerRepo, err := repository.NewCustomerRepository(seedCustomers)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to seed customers")
	}
	driverRepo := repository.NewDriverRepository(repository.SeedDrivers())

	geocoder, err := geocode.NewSimulated(cfg.Geocode.MinPercent, cfg.Geocode.MaxPercent, cfg.Geocode.Seed, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to init geocoder")
	}

	customerService := service.NewCustomerService(customerRepo, driverRepo, geocoder, appLogger)
	importService := service.NewImportService(customerRepo, driverRepo, cfg.Import.MaxRows, appLogger)

	handler := httphandler.NewHandler(customerService, importService, appLogger)
	router := httphandler.NewRouter(handler, appLogger, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info().
			Str("addr", addr).
			Int("customers", customerRepo.Count(ctx)).
			Int("drivers", len(driverRepo.List(ctx))).
			Msg("starting crm service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("failed to start server")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	appLogger.Info().Msg("crm service stopped")
}
