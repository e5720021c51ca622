// Command ramenctl is the operator tool for the shop backend: seeding the
// menu, creating the first admin and printing QR labels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramenshop/backend/internal/infrastructure/config"
	"github.com/ramenshop/backend/internal/infrastructure/logger"
	"github.com/ramenshop/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand shares
type app struct {
	logLevel string
	log      *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "ramenctl",
		Short:         "Operate the ramen shop backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{
				Level:      a.logLevel,
				Format:     "console",
				Output:     "stderr",
				TimeFormat: "15:04:05",
			})
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync(a.log)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newSeedCommand(a),
		newCreateAdminCommand(a),
		newQRCommand(a),
	)
	return root
}

// openDatabase loads the configuration and connects to the shop database
func (a *app) openDatabase() (*config.Config, *persistence.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:   a.log,
		LogLevel: logger.MapGormLogLevel("warn"),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
