package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/immowert/internal/api"
	"github.com/abhisek/immowert/internal/config"
	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/logging"
	"github.com/abhisek/immowert/internal/submission"
	"github.com/abhisek/immowert/internal/tenant"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.ListenAddr = v
		}
		if v, _ := cmd.Flags().GetString("configs-dir"); v != "" {
			cfg.ConfigsDir = v
		}

		logger := logging.New(os.Stderr, cfg.LogLevel)

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		gw := newGateway(cfg)
		srv := api.NewServer(api.Options{
			Persistence: func(id string) formstate.Persistence { return st.Slots(id) },
			Gateway: func(id string) submission.Gateway {
				return submission.WithEventLog(gw, st.SubmissionRepo(), id, logger)
			},
			Tenants:    newTenantLoader(cfg, logger),
			BaseDomain: cfg.BaseDomain,
			ConfigsDir: cfg.ConfigsDir,
			Logger:     logger,
		})

		httpSrv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           srv,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.ListenAddr, "endpoint_configured", cfg.Endpoint != "")
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

// newTenantLoader bounds tenant fetches by the webhook timeout when one is
// set; otherwise the loader keeps its own default.
func newTenantLoader(cfg config.Config, logger *slog.Logger) *tenant.Loader {
	opts := []tenant.LoaderOption{tenant.WithLogger(logger)}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, tenant.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
	}
	return tenant.NewLoader(cfg.ConfigBaseURL, opts...)
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	serveCmd.Flags().String("configs-dir", "", "Directory served under /configs/ (default ./configs)")
}
