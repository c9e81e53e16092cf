package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/immowert/internal/formstate"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the session's answers and valuation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := formstate.New(st.Slots(cfg.SessionID)).Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
		fmt.Printf("Session %q cleared.\n", cfg.SessionID)
		return nil
	},
}
