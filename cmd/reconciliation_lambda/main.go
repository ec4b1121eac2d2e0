package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/fair-wallet/pkg/config"
	"github.com/chris/fair-wallet/pkg/logger"
	"github.com/chris/fair-wallet/pkg/reconcile"
	dydbstore "github.com/chris/fair-wallet/pkg/storage/dynamodb"
)

var reconciler *reconcile.Reconciler

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	slog.SetDefault(logger.NewLogger(cfg.Logging.Level))

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
	reconciler = reconcile.New(store)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) (*reconcile.Report, error) {
	slog.Info("Starting balance reconciliation")

	report, err := reconciler.Run(ctx)
	if err != nil {
		slog.Error("reconciliation failed", "error", err)
		return nil, err
	}

	if len(report.Discrepancies) == 0 {
		slog.Info("No discrepancies found", "checked", report.Checked)
	} else {
		slog.Warn("Reconciliation found discrepancies", "checked", report.Checked, "discrepancies", len(report.Discrepancies))
	}
	return report, nil
}

func main() {
	lambda.Start(HandleRequest)
}
