package main // Entry point package

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/yagnesh-3/fira/internal/config"
	"github.com/yagnesh-3/fira/internal/database"
	"github.com/yagnesh-3/fira/internal/gateway"
	"github.com/yagnesh-3/fira/internal/handler"
	"github.com/yagnesh-3/fira/internal/middleware"
	"github.com/yagnesh-3/fira/internal/queue"
	"github.com/yagnesh-3/fira/internal/repository"
	"github.com/yagnesh-3/fira/internal/router"
	"github.com/yagnesh-3/fira/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", "fira").Logger()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.Connect(bootCtx, database.Config{
		User:         cfg.DBUser,
		Pass:         cfg.DBPass,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		Name:         cfg.DBName,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		ConnLifetime: time.Duration(cfg.DBConnLifetimeM) * time.Minute,
	})
	bootCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	// Redis is optional infrastructure: without it the response cache and
	// rate limiter become pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; cache and rate limiting disabled")
	}

	// Repositories
	eventRepo := repository.NewEventRepo(db)
	ticketRepo := repository.NewTicketRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	refundRepo := repository.NewRefundRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	venueRepo := repository.NewVenueRepo(db)

	// Payment gateway client. An unconfigured gateway is allowed: paid
	// flows answer 503 while the rest of the marketplace keeps running.
	gw := gateway.New(gateway.Config{
		KeyID:     cfg.GatewayKeyID,
		KeySecret: cfg.GatewayKeySecret,
		BaseURL:   cfg.GatewayBaseURL,
		Timeout:   time.Duration(cfg.GatewayTimeoutS) * time.Second,
	}, log)
	if !gw.Configured() {
		log.Warn().Msg("payment gateway not configured; paid flows disabled")
	}

	// Cancellation audit trail over RabbitMQ, optional like Redis.
	var publisher service.CancellationPublisher
	if cfg.RabbitURL != "" {
		publisher = queue.NewPublisher(cfg.RabbitURL, log)
	} else {
		log.Warn().Msg("rabbitmq not configured; cancellation audit trail disabled")
	}

	// Services
	paymentSvc := service.NewPaymentService(paymentRepo, refundRepo, gw, log)
	ticketSvc := service.NewTicketService(eventRepo, ticketRepo, paymentSvc, log)
	eventSvc := service.NewEventService(eventRepo, ticketRepo, paymentSvc, notificationRepo, publisher, log)
	bookingSvc := service.NewBookingService(bookingRepo, venueRepo, notificationRepo, log)

	handlers := router.Handlers{
		Venues:        handler.NewVenueHandler(venueRepo, bookingRepo),
		Events:        handler.NewEventHandler(eventRepo, venueRepo, eventSvc),
		Tickets:       handler.NewTicketHandler(ticketSvc, paymentSvc, ticketRepo),
		Payments:      handler.NewPaymentHandler(paymentSvc, paymentRepo, refundRepo),
		Bookings:      handler.NewBookingHandler(bookingSvc, bookingRepo),
		Notifications: handler.NewNotificationHandler(notificationRepo),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, handlers, rdb)
	router.RegisterProtected(e, handlers, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RabbitURL != "" {
		queue.StartCancellationConsumer(ctx, cfg.RabbitURL, log)
	}

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
