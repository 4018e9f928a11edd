package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mealplan/app"
	"github.com/kilianp07/mealplan/auth"
	"github.com/kilianp07/mealplan/config"
	"github.com/kilianp07/mealplan/infra/logger"
	"github.com/kilianp07/mealplan/pkg/client"
)

var (
	cfgPath   string
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:          "mealplan",
	Short:        "Meal plan generation service",
	RunE:         run,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plan API",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "send requests to a running server instead of planning locally")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if serverURL != "" {
		cfg.Client.Server = serverURL
		if err := cfg.Client.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// remote returns an API client when a server is configured.
func remote(cfg *config.Config) (*client.Client, error) {
	if cfg.Client.Server == "" {
		return nil, nil
	}
	a, err := auth.New(cfg.Client.Auth)
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Client.Server, a), nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
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
	return svc.Run(ctx)
}
