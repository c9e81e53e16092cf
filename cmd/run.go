package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/immowert/internal/app"
	"github.com/abhisek/immowert/internal/config"
	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/logging"
	"github.com/abhisek/immowert/internal/store"
	"github.com/abhisek/immowert/internal/submission"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/wizard"
)

// runApp opens the store, resumes the session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Endpoint == "" {
		fmt.Fprintln(os.Stderr, "Valuation endpoint not configured:", config.ErrNoEndpoint)
		fmt.Fprintln(os.Stderr, "Answers are saved, but no valuation can be requested.")
	}

	notices := app.NewNoticeQueue()
	session, err := openSession(ctx, cfg, st, notices, logger)
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Session:     session,
		Tenant:      loadTenant(ctx, cfg, logger),
		Notices:     notices,
		Submissions: st.SubmissionRepo(),
		SessionID:   cfg.SessionID,
		Logger:      logger,
	})
}

// openSession builds the session for cfg.SessionID and restores its saved
// answers and report. Every submission is recorded in the event log.
func openSession(ctx context.Context, cfg config.Config, st *store.Store, n wizard.Notifier, logger *slog.Logger) (*wizard.Session, error) {
	gw := submission.WithEventLog(newGateway(cfg), st.SubmissionRepo(), cfg.SessionID, logger)
	session := wizard.NewSession(wizard.Options{
		Store:    formstate.New(st.Slots(cfg.SessionID)),
		Gateway:  gw,
		Notifier: n,
		Logger:   logger,
	})
	if _, err := session.Resume(ctx); err != nil {
		return nil, fmt.Errorf("resume session %q: %w", cfg.SessionID, err)
	}
	return session, nil
}

func loadTenant(ctx context.Context, cfg config.Config, logger *slog.Logger) tenant.Config {
	loader := tenant.NewLoader(cfg.ConfigBaseURL, tenant.WithLogger(logger))
	return loader.Load(ctx, cfg.TenantID())
}
