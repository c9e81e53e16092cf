package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/abhisek/immowert/internal/config"
	"github.com/abhisek/immowert/internal/store"
	"github.com/abhisek/immowert/internal/submission"
)

var rootCmd = &cobra.Command{
	Use:   "immowert",
	Short: "Property valuation questionnaire",
	Long:  "Immowert — terminal questionnaire that collects property details and requests a market valuation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/immowert/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides IMMOWERT_DB env var)")
	pf.String("session", "", "Session slot to resume (overrides IMMOWERT_SESSION env var)")
	pf.String("endpoint", "", "Valuation webhook URL (overrides IMMOWERT_ENDPOINT env var)")
	pf.String("tenant", "", "Tenant id whose branding to load")
	pf.String("host", "", "Host name to derive the tenant from")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(tenantCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, "")
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	flags := []struct {
		name string
		dst  *string
	}{
		{"db", &cfg.DBPath},
		{"session", &cfg.SessionID},
		{"endpoint", &cfg.Endpoint},
		{"tenant", &cfg.Tenant},
		{"host", &cfg.Host},
	}
	for _, f := range flags {
		if v, _ := cmd.Flags().GetString(f.name); v != "" {
			*f.dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path from the config (flag, file or
// env), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newGateway builds the webhook gateway. Without an endpoint every
// submission fails with config.ErrNoEndpoint.
func newGateway(cfg config.Config) submission.Gateway {
	if cfg.Endpoint == "" {
		return missingEndpoint{}
	}
	return submission.NewHTTPGateway(cfg.Endpoint,
		submission.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		submission.WithAckTokens(cfg.AckTokens),
	)
}

type missingEndpoint struct{}

func (missingEndpoint) Submit(context.Context, submission.Request) (*submission.Reply, error) {
	return nil, &submission.TransportError{Err: config.ErrNoEndpoint}
}
