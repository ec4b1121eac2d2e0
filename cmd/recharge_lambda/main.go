package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/fair-wallet/pkg/config"
	"github.com/chris/fair-wallet/pkg/ledger"
	"github.com/chris/fair-wallet/pkg/logger"
	"github.com/chris/fair-wallet/pkg/recharges"
	dydbstore "github.com/chris/fair-wallet/pkg/storage/dynamodb"
)

var processor *recharges.Processor

func init() {
	// Environment variables (and a .env file when testing locally).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	slog.SetDefault(logger.NewLogger(cfg.Logging.Level))

	// Initialize dependencies once.
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables{
		Accounts:     cfg.Store.AccountsTable,
		Products:     cfg.Store.ProductsTable,
		Transactions: cfg.Store.TransactionsTable,
		Recharges:    cfg.Store.RechargesTable,
	})

	// Recharges are not pushed to the live feed from here; dashboards that
	// need them poll the accounts stream.
	engine := ledger.NewEngine(store, nil, nil, ledger.RetryPolicy{
		MaxAttempts: cfg.Purchase.MaxAttempts,
		BaseDelay:   cfg.Purchase.BaseDelay,
		MaxDelay:    cfg.Purchase.MaxDelay,
	})
	processor = recharges.NewProcessor(engine)
}

func main() {
	lambda.Start(processor.HandleSQS)
}
