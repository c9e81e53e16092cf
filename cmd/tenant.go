package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/immowert/internal/logging"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Inspect tenant branding",
}

var tenantShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective tenant config",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, cfg.LogLevel)

		id := cfg.TenantID()
		if id == "" {
			fmt.Fprintln(os.Stderr, "No tenant resolved; showing the default config.")
		}
		t := loadTenant(cmd.Context(), cfg, logger)

		out, err := yaml.Marshal(map[string]string{
			"tenant":       id,
			"anrede":       t.Anrede,
			"maklerName":   t.MaklerName,
			"leadEmail":    t.LeadEmail,
			"telefon":      t.Telefon,
			"bueroPLZ":     t.BueroPLZ,
			"bueroStadt":   t.BueroStadt,
			"bueroStrasse": t.BueroStrasse,
			"farbe":        t.Farbe,
			"logo":         t.Logo,
			"adresse":      t.Adresse,
		})
		if err != nil {
			return fmt.Errorf("encode tenant: %w", err)
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	tenantCmd.AddCommand(tenantShowCmd)
}
