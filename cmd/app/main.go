package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/jeysi05/pickle-jar-courts/internal/auth"
	"github.com/jeysi05/pickle-jar-courts/internal/config"
	"github.com/jeysi05/pickle-jar-courts/internal/court"
	"github.com/jeysi05/pickle-jar-courts/internal/db"
	"github.com/jeysi05/pickle-jar-courts/internal/email"
	"github.com/jeysi05/pickle-jar-courts/internal/events"
	"github.com/jeysi05/pickle-jar-courts/internal/logger"
	"github.com/jeysi05/pickle-jar-courts/internal/pricing"
	"github.com/jeysi05/pickle-jar-courts/internal/reservation"
	"github.com/jeysi05/pickle-jar-courts/internal/scheduler"
	"github.com/jeysi05/pickle-jar-courts/internal/server"
)

func main() {
	logger.Init()
	logger.Info("Starting Pickle Jar Courts API")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.Migrations); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	transport, err := newTransport(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create email transport: %v", err)
	}
	emailService := email.New(rdb, transport, email.Recipient{Email: cfg.AdminEmail, Name: cfg.AdminName})
	defer emailService.Close()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	engine, err := pricing.NewEngine(cfg.Pricing)
	if err != nil {
		logger.Fatalf("Invalid pricing rules: %v", err)
	}
	logger.Info("Pricing engine ready", "policy", engine.Policy().Name(), "slots", len(engine.Slots()))

	courtService := court.NewService(court.NewRepository(database))
	reservationService := reservation.NewService(
		reservation.NewRepository(database),
		courtService,
		engine,
		emailService,
		publisher,
		reservation.Options{
			Atomic:        cfg.BookingAtomic,
			ContactRegion: cfg.ContactRegion,
			VenueLocation: cfg.VenueLocation,
		},
	)

	sched, err := scheduler.New(engine.Location())
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	jobs := scheduler.Jobs{
		Queue:        emailService,
		Reservations: reservationService,
		Digest:       emailService,
		DigestCron:   cfg.DigestCron,
	}
	if err := jobs.Register(sched); err != nil {
		logger.Fatalf("Failed to register jobs: %v", err)
	}

	srv := server.New(cfg, server.Handlers{
		Auth:         auth.NewHandler(auth.NewGate(cfg.AdminPasswordHash, cfg.CoachCodeHash, cfg.JWTSecret)),
		Courts:       court.NewHandler(courtService),
		Reservations: reservation.NewHandler(reservationService, cfg.Pricing),
	}, map[string]server.Checker{
		"postgres": database.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emailService.Start(gctx)
		return nil
	})
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		return sched.Stop()
	})
	g.Go(func() error {
		logger.Infof("Server starting on port %s", cfg.Port)
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Server error: %v", err)
	}
	logger.Info("Server stopped")
}

func newTransport(ctx context.Context, cfg *config.Config) (email.Transport, error) {
	if cfg.EmailTransport == "ses" {
		return email.NewSESTransport(ctx, cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.EmailFrom)
	}
	return email.NewSMTPTransport(cfg.EmailFrom, cfg.EmailFromName, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass), nil
}

// newPublisher falls back to Nop when no broker is configured or reachable.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.WithError(err).Warn("event broker unavailable, events disabled")
		return events.Nop{}
	}
	return p
}
