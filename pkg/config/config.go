// Package config loads and validates the service configuration.
package config

import (
	"errors"
	"strings"
	"time"
)

// Store backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds the complete application configuration.
type Config struct {
	Logging  LoggingConfig
	Server   ServerConfig
	Store    StoreConfig
	Receipts ReceiptsConfig
	Identity IdentityConfig
	Purchase PurchaseConfig
	Feed     FeedConfig
	CORS     CORSConfig
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// StoreConfig selects the storage backend and names its DynamoDB tables.
type StoreConfig struct {
	Backend           string
	AccountsTable     string
	ProductsTable     string
	TransactionsTable string
	RechargesTable    string
}

// ReceiptsConfig configures the SQS receipts queue. An empty QueueURL disables receipts.
type ReceiptsConfig struct {
	QueueURL string
}

// IdentityConfig configures presentation URLs printed in QR codes.
type IdentityConfig struct {
	PublicBaseURL string
}

// PurchaseConfig is the ledger retry policy.
type PurchaseConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// FeedConfig configures the live feed.
type FeedConfig struct {
	StreamPolling bool          // Tail DynamoDB Streams instead of publishing in-process
	PollInterval  time.Duration
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// validate collects every problem so a bad deployment reports them all at once.
func (c *Config) validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "HTTP_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "HTTP_SHUTDOWN_TIMEOUT must be greater than 0")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.Store.AccountsTable == "" {
			validationErrors = append(validationErrors, "DYNAMODB_ACCOUNTS_TABLE_NAME is required")
		}
		if c.Store.ProductsTable == "" {
			validationErrors = append(validationErrors, "DYNAMODB_PRODUCTS_TABLE_NAME is required")
		}
		if c.Store.TransactionsTable == "" {
			validationErrors = append(validationErrors, "DYNAMODB_TRANSACTIONS_TABLE_NAME is required")
		}
		if c.Store.RechargesTable == "" {
			validationErrors = append(validationErrors, "DYNAMODB_RECHARGES_TABLE_NAME is required")
		}
	default:
		validationErrors = append(validationErrors, "STORE_BACKEND must be one of dynamodb, memory")
	}

	if c.Identity.PublicBaseURL == "" {
		validationErrors = append(validationErrors, "PUBLIC_BASE_URL is required")
	}

	if c.Purchase.MaxAttempts <= 0 {
		validationErrors = append(validationErrors, "PURCHASE_MAX_ATTEMPTS must be greater than 0")
	}
	if c.Purchase.BaseDelay <= 0 {
		validationErrors = append(validationErrors, "PURCHASE_BASE_DELAY must be greater than 0")
	}
	if c.Purchase.MaxDelay < c.Purchase.BaseDelay {
		validationErrors = append(validationErrors, "PURCHASE_MAX_DELAY must not be less than PURCHASE_BASE_DELAY")
	}

	if c.Feed.StreamPolling {
		if c.Store.Backend != BackendDynamoDB {
			validationErrors = append(validationErrors, "FEED_STREAM_POLLING requires STORE_BACKEND=dynamodb")
		}
		if c.Feed.PollInterval <= 0 {
			validationErrors = append(validationErrors, "STREAM_POLL_INTERVAL must be greater than 0")
		}
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
