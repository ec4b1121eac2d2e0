package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load builds the configuration in layers: defaults, then the given .env files
// (".env" when none are given; missing files are skipped), then the process
// environment. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("no env file found, using environment variables", "file", f)
				continue
			}
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	config := &Config{
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("HTTP_PORT"),
			ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("HTTP_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("HTTP_IDLE_TIMEOUT"),
		},
		Store: StoreConfig{
			Backend:           strings.ToLower(v.GetString("STORE_BACKEND")),
			AccountsTable:     v.GetString("DYNAMODB_ACCOUNTS_TABLE_NAME"),
			ProductsTable:     v.GetString("DYNAMODB_PRODUCTS_TABLE_NAME"),
			TransactionsTable: v.GetString("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
			RechargesTable:    v.GetString("DYNAMODB_RECHARGES_TABLE_NAME"),
		},
		Receipts: ReceiptsConfig{
			QueueURL: v.GetString("RECEIPTS_QUEUE_URL"),
		},
		Identity: IdentityConfig{
			PublicBaseURL: v.GetString("PUBLIC_BASE_URL"),
		},
		Purchase: PurchaseConfig{
			MaxAttempts: v.GetInt("PURCHASE_MAX_ATTEMPTS"),
			BaseDelay:   v.GetDuration("PURCHASE_BASE_DELAY"),
			MaxDelay:    v.GetDuration("PURCHASE_MAX_DELAY"),
		},
		Feed: FeedConfig{
			StreamPolling: v.GetBool("FEED_STREAM_POLLING"),
			PollInterval:  v.GetDuration("STREAM_POLL_INTERVAL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_IDLE_TIMEOUT", 60*time.Second)

	v.SetDefault("STORE_BACKEND", BackendDynamoDB)
	v.SetDefault("DYNAMODB_ACCOUNTS_TABLE_NAME", "accounts")
	v.SetDefault("DYNAMODB_PRODUCTS_TABLE_NAME", "products")
	v.SetDefault("DYNAMODB_TRANSACTIONS_TABLE_NAME", "transactions")
	v.SetDefault("DYNAMODB_RECHARGES_TABLE_NAME", "recharges")

	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

	v.SetDefault("PURCHASE_MAX_ATTEMPTS", 5)
	v.SetDefault("PURCHASE_BASE_DELAY", 20*time.Millisecond)
	v.SetDefault("PURCHASE_MAX_DELAY", 500*time.Millisecond)

	v.SetDefault("FEED_STREAM_POLLING", false)
	v.SetDefault("STREAM_POLL_INTERVAL", time.Second)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}
