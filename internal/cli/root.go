// Package cli implements the tasktreectl commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tasktree/internal/client"
	"tasktree/internal/models"
)

// Global flags.
var (
	flagAPI     string
	flagConfig  string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:           "tasktreectl",
	Short:         "Terminal client for the tasktree server",
	Long:          `tasktreectl lists, filters, sorts, and edits tasks against a tasktree server, falling back to a local cache when the server is unreachable.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			disableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "base URL of the task API (overrides config file)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var domainErr *models.Error
		if errors.As(err, &domainErr) {
			fmt.Fprintf(os.Stderr, "Error (%s): %s\n", domainErr.Code, domainErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// newCache builds the write-through cache from config and flags.
func newCache() (*client.Cache, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagAPI != "" {
		cfg.APIURL = flagAPI
	}

	api := client.NewAPIClient(cfg.APIURL)
	local := client.NewLocalStore(cfg.CachePath)
	return client.NewCache(api, local), nil
}

// commandContext bounds a whole command run; individual HTTP calls carry
// their own shorter client timeout.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// loadCacheWarnDegraded loads the cache, downgrading a degraded-mode load to
// a stderr warning.
func loadCacheWarnDegraded(ctx context.Context, cache *client.Cache) error {
	err := cache.Load(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, client.ErrDegraded) {
		fmt.Fprintln(os.Stderr, "Warning:", err)
		return nil
	}
	return err
}
