// Package main provides the FrigoZen application entry point
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/frigozen/v1/internal/infrastructure/config"
	"github.com/frigozen/v1/internal/infrastructure/container"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "frigozen: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()

	app, err := container.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	defer app.Close()

	logDashboard(ctx, app)
	return nil
}

// logDashboard reports the restored state the way the dashboard presents it:
// active count, items inside the warning window, and consumption progress.
func logDashboard(ctx context.Context, app *container.Container) {
	logger := app.Logger.Named("dashboard")

	active := app.Inventory.ActiveItems(ctx)
	stats := app.Inventory.ConsumptionStats(ctx)

	logger.Info("Inventory state",
		zap.Int("active_items", len(active)),
		zap.Int("total_items", stats.Total),
		zap.Int("consumed_items", stats.Consumed),
		zap.Int("consumption_percentage", stats.Percentage),
		zap.String("language", app.Preferences.Language()),
		zap.String("theme", app.Preferences.Theme()),
	)

	now := time.Now()
	for _, item := range app.Inventory.ExpiringSoon(ctx, 0) {
		logger.Info("Expiring soon",
			zap.String("name", item.Name()),
			zap.String("category", string(item.Category())),
			zap.String("status", string(item.ExpiryStatus(now))),
			zap.Time("expiry", item.ExpiryDate()),
		)
	}
}
