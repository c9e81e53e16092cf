package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/logging"
	"github.com/abhisek/immowert/internal/wizard"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Value a second property against the finished valuation",
	Long: "Submits a comparison property. Property type, living area, condition and " +
		"year built are taken from the session's answers unless given as flags.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if _, err := cfg.RequireEndpoint(); err != nil {
			return err
		}

		p, err := comparePatch(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		logger := logging.New(os.Stderr, cfg.LogLevel)
		session, err := openSession(ctx, cfg, st, nil, logger)
		if err != nil {
			return err
		}

		rec, err := session.Compare(ctx, p)
		switch {
		case errors.Is(err, wizard.ErrNotDone):
			return fmt.Errorf("session %q has no finished valuation to compare against", cfg.SessionID)
		case err != nil:
			return err
		}

		fmt.Println("Vergleichsbewertung")
		fmt.Println()
		printRecord(os.Stdout, rec)
		return nil
	},
}

func init() {
	f := compareCmd.Flags()
	f.String("zip", "", "Zip code of the comparison property (required)")
	f.String("city", "", "City of the comparison property (required)")
	f.Int("living-area", 0, "Living area in m²")
	f.Int("plot-area", 0, "Plot area in m² (houses only)")
	f.String("condition", "", "General condition, e.g. gepflegt")
	f.String("year-built", "", "Construction period, e.g. 1990_2009")
	_ = compareCmd.MarkFlagRequired("zip")
	_ = compareCmd.MarkFlagRequired("city")
}

// comparePatch turns the flags into answers, validating option values.
func comparePatch(cmd *cobra.Command) (answers.Patch, error) {
	f := cmd.Flags()
	p := answers.NewPatch()

	zip, _ := f.GetString("zip")
	city, _ := f.GetString("city")
	p.Set(answers.FieldZipCode, zip).Set(answers.FieldCity, city)

	for flag, field := range map[string]answers.Field{
		"living-area": answers.FieldLivingArea,
		"plot-area":   answers.FieldPlotArea,
	} {
		if f.Changed(flag) {
			v, _ := f.GetInt(flag)
			p.Set(field, v)
		}
	}
	for flag, field := range map[string]answers.Field{
		"condition":  answers.FieldConditionGeneral,
		"year-built": answers.FieldYearBuilt,
	} {
		if v, _ := f.GetString(flag); v != "" {
			p.Set(field, v)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
