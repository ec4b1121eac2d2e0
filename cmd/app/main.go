package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/fair-wallet/pkg/api"
	"github.com/chris/fair-wallet/pkg/config"
	"github.com/chris/fair-wallet/pkg/feed"
	"github.com/chris/fair-wallet/pkg/handlers"
	"github.com/chris/fair-wallet/pkg/handlers/respond"
	"github.com/chris/fair-wallet/pkg/handlers/websockets"
	"github.com/chris/fair-wallet/pkg/identity"
	"github.com/chris/fair-wallet/pkg/ledger"
	"github.com/chris/fair-wallet/pkg/logger"
	custommw "github.com/chris/fair-wallet/pkg/middleware"
	"github.com/chris/fair-wallet/pkg/notify"
	"github.com/chris/fair-wallet/pkg/provisioning"
	"github.com/chris/fair-wallet/pkg/reporting"
	"github.com/chris/fair-wallet/pkg/storage"
	dynamostore "github.com/chris/fair-wallet/pkg/storage/dynamodb"
	"github.com/chris/fair-wallet/pkg/storage/memory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.NewLogger(cfg.Logging.Level)
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) error {
	// AWS clients are only needed when something talks to AWS.
	var awsCfg aws.Config
	if cfg.Store.Backend == config.BackendDynamoDB || cfg.Receipts.QueueURL != "" {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}
	}

	var (
		store    storage.Storage
		dynStore *dynamostore.Store
	)
	switch cfg.Store.Backend {
	case config.BackendDynamoDB:
		dynStore = dynamostore.New(dynamodb.NewFromConfig(awsCfg), dynamostore.Tables{
			Accounts:     cfg.Store.AccountsTable,
			Products:     cfg.Store.ProductsTable,
			Transactions: cfg.Store.TransactionsTable,
			Recharges:    cfg.Store.RechargesTable,
		})
		store = dynStore
	default:
		slog.Warn("using in-memory store; data is lost on restart")
		store = memory.New()
	}

	broker := feed.NewBroker(feed.DefaultBuffer)

	// With stream polling every instance learns about commits from DynamoDB Streams,
	// so the engine must not publish them a second time.
	var publisher feed.Publisher = broker
	if cfg.Feed.StreamPolling {
		publisher = &feed.NoOpPublisher{}
		if err := startStreamPollers(ctx, dynStore, dynamodbstreams.NewFromConfig(awsCfg), broker, cfg); err != nil {
			return err
		}
	}

	var notifier notify.Notifier = notify.NoOp{}
	if cfg.Receipts.QueueURL != "" {
		notifier = notify.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.Receipts.QueueURL)
	}

	engine := ledger.NewEngine(store, publisher, notifier, ledger.RetryPolicy{
		MaxAttempts: cfg.Purchase.MaxAttempts,
		BaseDelay:   cfg.Purchase.BaseDelay,
		MaxDelay:    cfg.Purchase.MaxDelay,
	})
	presenter := identity.NewPresenter(cfg.Identity.PublicBaseURL)
	provisioner := provisioning.NewService(store, presenter)

	// Subscribe before seeding so nothing committed in between is missed.
	projection := reporting.NewProjection(feed.Filter{})
	events, unsubscribe := broker.SubscribeLossless(ctx, feed.Filter{})
	defer unsubscribe()
	existing, err := store.ListTransactions(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to seed sales projection: %w", err)
	}
	projection.Seed(existing)
	go projection.Run(ctx, events)

	handler := handlers.NewApiHandler(store, engine, provisioner, presenter, projection)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(custommw.NewStructuredLogger(appLogger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	router.Handle("/ws", websockets.NewHandler(broker, nil))

	// Use the generated function to mount our handler on the router
	api.HandlerWithOptions(handler, api.ChiServerOptions{
		BaseRouter: router,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			respond.Error(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port, "store", cfg.Store.Backend, "stream_polling", cfg.Feed.StreamPolling)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	slog.Info("server stopped", "dropped_feed_events", broker.Dropped())
	return nil
}

func startStreamPollers(ctx context.Context, store *dynamostore.Store, client feed.StreamsAPI, broker *feed.Broker, cfg *config.Config) error {
	streams := []struct {
		table  string
		decode feed.Decoder
	}{
		{cfg.Store.TransactionsTable, feed.DecodeTransactions},
		{cfg.Store.AccountsTable, feed.DecodeAccounts},
	}

	for _, s := range streams {
		arn, err := store.LatestStreamARN(ctx, s.table)
		if err != nil {
			return fmt.Errorf("failed to start stream poller: %w", err)
		}
		poller := feed.NewStreamPoller(client, arn, s.decode, broker, cfg.Feed.PollInterval)
		go poller.Run(ctx)
	}
	return nil
}
