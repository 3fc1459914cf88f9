package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arzan03/DoctorsPortal/internal/config"
	"github.com/arzan03/DoctorsPortal/internal/db"
	"github.com/arzan03/DoctorsPortal/internal/middleware"
	"github.com/arzan03/DoctorsPortal/internal/models"
	"github.com/arzan03/DoctorsPortal/internal/notify"
	"github.com/arzan03/DoctorsPortal/internal/payments"
	"github.com/arzan03/DoctorsPortal/internal/server"
	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/arzan03/DoctorsPortal/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "doctors-portal",
		Short: "Doctors Portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the unique and lookup indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, client, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			if err := db.EnsureIndexes(ctx, client.Database(cfg.MongoDB)); err != nil {
				return fmt.Errorf("create indexes: %w", err)
			}
			fmt.Printf("Ensured %d index(es) on %s.\n", len(db.Indexes()), cfg.MongoDB)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert appointment options from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var options []models.AppointmentOption
			if err := json.Unmarshal(raw, &options); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			ctx := cmd.Context()
			cfg, client, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			store := db.NewStore(client.Database(cfg.MongoDB))
			for _, opt := range options {
				if opt.Name == "" {
					return fmt.Errorf("option without a name in %s", file)
				}
				if opt.Slots == nil {
					opt.Slots = []string{}
				}
				res, err := store.Options.Upsert(ctx, opt)
				if err != nil {
					return err
				}
				state := "updated"
				if res.UpsertedCount > 0 {
					state = "created"
				}
				fmt.Printf("%-30s %s\n", opt.Name, state)
			}
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to a JSON array of appointment options")
	return cmd
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Mark paid every booking that has a recorded payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, client, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())
			logger := newLogger(cfg.IsDev())

			store := db.NewStore(client.Database(cfg.MongoDB))
			svc := services.NewPaymentService(nil, store.Payments, store.Bookings, logger)
			rep, err := svc.Reconcile(ctx)
			if err != nil {
				return fmt.Errorf("reconcile payments: %w", err)
			}
			fmt.Printf("Scanned %d payment(s): %d repaired, %d orphaned, %d invalid.\n",
				rep.Scanned, rep.Repaired, rep.Orphaned, rep.Invalid)
			return nil
		},
	}
}

func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// connect loads the config and opens the database for the maintenance commands.
func connect(ctx context.Context) (*config.Config, *mongo.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	client, err := db.ConnectMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.IsDev())
	if err := cfg.ValidateServer(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	client, err := db.ConnectMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer client.Disconnect(context.Background())
	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.Warn().Err(err).Msg("some indexes could not be created")
	}
	store := db.NewStore(database)
	logger.Info().Str("db", cfg.MongoDB).Msg("connected to database")

	// Doctor images
	var images services.ImageStore
	if cfg.MinioEndpoint != "" {
		imageStore, err := storage.NewImageStore(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create minio client")
		}
		if err := imageStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("image bucket unavailable, uploads will fail")
		}
		images = imageStore
	}

	// Booking emails
	var mailer notify.Mailer = notify.LogMailer{Log: logger}
	if cfg.MailEnabled() {
		mailer = notify.NewMailgunMailer(cfg.EmailSendDomain, cfg.EmailSendKey, cfg.EmailFrom)
	} else {
		logger.Warn().Msg("EMAIL_SEND_KEY or EMAIL_SEND_DOMAIN not set, booking emails are only logged")
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.NotifyWorkers, logger)

	if cfg.StripeSecretKey == "" {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents will fail")
	}

	auth := services.NewAuthService(store.Users, cfg.TokenSecret, cfg.TokenTTL)
	app := server.New(server.Deps{
		Log:          logger,
		CORSOrigins:  cfg.CORSOrigins,
		Auth:         auth,
		Availability: services.NewAvailabilityService(store.Options, store.Bookings),
		Bookings:     services.NewBookingService(store.Bookings, dispatcher, logger),
		Payments:     services.NewPaymentService(payments.NewStripeIntents(cfg.StripeSecretKey), store.Payments, store.Bookings, logger),
		Directory:    services.NewDirectoryService(store.Users, store.Doctors, images, cfg.PromoteUpsert, logger),
		TokenLimiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := app.Listen(addr); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	dispatcher.Close()
	logger.Info().Msg("server stopped")
	return nil
}
