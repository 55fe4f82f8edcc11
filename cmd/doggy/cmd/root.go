package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doggydelights/service/internal/client"
	"github.com/doggydelights/service/internal/logging"
)

const defaultConfigName = ".doggy.yaml"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "doggy",
	Short:        "Share dog pictures with a Doggy Delights server and browse its gallery",
	SilenceUsage: true,
}

func Execute() {
	slog.SetDefault(logging.CreateLogger(logging.ParseLevel(os.Getenv("LOG_LEVEL"))))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("failed to execute command", "error", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the client config file (default $HOME/"+defaultConfigName+")")
	rootCmd.PersistentFlags().StringP("server", "s", "", "Server base URL, overrides the config file")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (client.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return client.Config{}, fmt.Errorf("failed to get config: %w", err)
	}
	optional := false
	if path == "" {
		if home, homeErr := os.UserHomeDir(); homeErr == nil {
			path = filepath.Join(home, defaultConfigName)
			optional = true
		}
	}

	cfg, err := client.LoadConfig(path, optional)
	if err != nil {
		return client.Config{}, err
	}

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Server = server
	}
	slog.Debug("Read config", "config", cfg)
	return cfg, nil
}

func newUploader(cfg client.Config) *client.Uploader {
	return client.NewUploader(
		client.New(cfg.Server, nil),
		client.NewDogAPI(cfg.RandomDogURL, nil),
		slog.Default(),
	)
}
