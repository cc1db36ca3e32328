package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctors_portal/internal/auth"
	"doctors_portal/internal/config"
	"doctors_portal/internal/domain"
	"doctors_portal/internal/feature/availability"
	"doctors_portal/internal/feature/booking"
	"doctors_portal/internal/feature/directory"
	"doctors_portal/internal/feature/payment"
	"doctors_portal/internal/httpapi"
	"doctors_portal/internal/logging"
	"doctors_portal/internal/store"
)

const (
	mongoConnectTimeout    = 10 * time.Second
	mongoIndexTimeout      = 5 * time.Second
	mongoDisconnectTimeout = 5 * time.Second
	httpShutdownTimeout    = 10 * time.Second
)

func main() {
	configOnly := flag.Bool("config-only", false, "load and print configuration then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("configuration error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		logging.Error("logger setup error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}

	if *configOnly {
		logging.Info("configuration check", logging.Fields{"event": "config_only"})
		fmt.Println("configuration check: ok")
		fmt.Println(config.FormatRedacted(cfg))
		return
	}

	logger.WithFields(logging.Fields{
		"event":    "startup",
		"mongo_db": cfg.MongoDB,
	}).Info("configuration loaded")

	connectCtx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	mongoManager, err := store.NewManager(connectCtx, cfg)
	cancel()
	if err != nil {
		logger.WithError(err).Error("mongo connection error")
		fmt.Fprintf(os.Stderr, "mongo connection error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "mongo_connect").Info("connected to mongo")

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), mongoIndexTimeout)
	if err := mongoManager.EnsureBaseIndexes(indexCtx); err != nil {
		cancelIndexes()
		logger.WithError(err).Error("mongo index setup error")
		fmt.Fprintf(os.Stderr, "mongo index setup error: %v\n", err)
		os.Exit(1)
	}
	cancelIndexes()

	logger.WithField("event", "mongo_indexes").Info("ensured base mongo indexes")

	appointmentRepo := domain.NewAppointmentRepository(mongoManager.AppointmentOptions())
	bookingRepo := domain.NewBookingRepository(mongoManager.Bookings())
	userRepo := domain.NewUserRepository(mongoManager.Users())
	doctorRepo := domain.NewDoctorRepository(mongoManager.Doctors())
	paymentRepo := domain.NewPaymentRepository(mongoManager.Payments())
	statsProvider := store.NewStatsProvider(mongoManager.Users(), mongoManager.Bookings(), mongoManager.Doctors())

	tokenService, err := auth.NewService(cfg.TokenSecret)
	if err != nil {
		logger.WithError(err).Error("token service setup error")
		fmt.Fprintf(os.Stderr, "token service setup error: %v\n", err)
		os.Exit(1)
	}

	stripeClient, err := payment.NewStripeClient(cfg.StripeSecret)
	if err != nil {
		logger.WithError(err).Error("stripe client setup error")
		fmt.Fprintf(os.Stderr, "stripe client setup error: %v\n", err)
		os.Exit(1)
	}

	availabilityService := availability.NewService(appointmentRepo, bookingRepo, logger)
	bookingManager := booking.NewManager(bookingRepo, logger)
	paymentCoordinator := payment.NewCoordinator(stripeClient, paymentRepo, bookingRepo, logger)
	directoryService := directory.NewService(userRepo, doctorRepo, logger)

	apiServer, err := httpapi.NewServer(cfg.HTTPPort, httpapi.Deps{
		Tokens:       tokenService,
		Availability: availabilityService,
		Bookings:     bookingManager,
		Payments:     paymentCoordinator,
		Directory:    directoryService,
		Mongo:        mongoManager,
		Stats:        statsProvider,
		Logger:       logger,
	})
	if err != nil {
		logger.WithError(err).Error("http server setup error")
		fmt.Fprintf(os.Stderr, "http server setup error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "http_ready").Info("http server initialized")

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveDone := make(chan error, 1)

	go func() {
		serveDone <- apiServer.ListenAndServe()
	}()

	select {
	case <-signalCtx.Done():
		logger.WithField("event", "shutdown_signal").Info("received termination signal, stopping http server")
	case err := <-serveDone:
		if err != nil {
			logger.WithError(err).Error("http server stopped early")
		} else {
			logger.WithField("event", "http_stopped_early").Warn("http server stopped before shutdown signal")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), httpShutdownTimeout)
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown error")
	}
	cancelShutdown()

	disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	if err := mongoManager.Close(disconnectCtx); err != nil {
		logger.WithError(err).Error("mongo disconnect error")
	} else {
		logger.WithField("event", "mongo_disconnect").Info("mongo client disconnected")
	}
	cancelDisconnect()

	logger.WithField("event", "shutdown_complete").Info("shutdown complete")
}
