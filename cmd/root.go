package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/avfleet/app"
	"github.com/kilianp07/avfleet/config"
	"github.com/kilianp07/avfleet/infra/logger"
	"github.com/kilianp07/avfleet/shell"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "avfleet",
	Short: "Autonomous vehicle fleet simulator",
	RunE:  runConsole,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func runConsole(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	svc.Start(ctx)
	return shell.New(svc.Registry, svc.Mission, logger.New("shell"), cmd.InOrStdin(), cmd.OutOrStdout()).Run()
}
