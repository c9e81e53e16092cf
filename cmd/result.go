package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/result"
)

var resultCmd = &cobra.Command{
	Use:   "result",
	Short: "Print the last valuation of the session",
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

		rec, err := formstate.New(st.Slots(cfg.SessionID)).LoadResult(cmd.Context())
		if err != nil {
			return fmt.Errorf("load result: %w", err)
		}
		if rec == nil {
			fmt.Printf("No valuation stored for session %q.\n", cfg.SessionID)
			return nil
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		printRecord(os.Stdout, *rec)
		return nil
	},
}

func init() {
	resultCmd.Flags().Bool("json", false, "Print the raw record as JSON")
}

// printRecord writes a plain-text report.
func printRecord(w io.Writer, rec result.Record) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "Marktwert:        %s\n", result.EUR(rec.EstimatedValue))
	fmt.Fprintf(w, "Wertspanne:       %s\n", rec.Range())
	fmt.Fprintf(w, "Preis pro m²:     %s\n", result.EURPerSqm(rec.PricePerSqm))
	fmt.Fprintf(w, "Zuverlässigkeit:  %s\n", rec.ConfidenceLabel())

	if rec.MarketTrend != nil && *rec.MarketTrend != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, *rec.MarketTrend)
	}

	drivers := []struct {
		title string
		mark  string
		items []string
	}{
		{"Wertsteigernd", "+", rec.PositiveDrivers},
		{"Wertmindernd", "-", rec.NegativeDrivers},
	}
	for _, d := range drivers {
		if len(d.items) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, d.title)
		fmt.Fprintln(w, sep)
		for _, item := range d.items {
			fmt.Fprintf(w, "  %s %s\n", d.mark, item)
		}
	}

	if len(rec.PriceDevelopment) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-6s  %14s  %14s\n", "Jahr", "Lokal", "Ø Region")
		fmt.Fprintln(w, sep)
		for _, p := range rec.PriceDevelopment {
			fmt.Fprintf(w, "%-6d  %14s  %14s\n", p.Year, result.EURPerSqm(p.LocalPrice), result.EURPerSqm(p.AvgPrice))
		}
	}

	if len(rec.ComparableProperties) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Vergleichsobjekte")
		fmt.Fprintln(w, sep)
		for _, c := range rec.ComparableProperties {
			fmt.Fprintf(w, "  %s (%s, %s): %s\n",
				c.AddressSnippet, c.PropertyTypeDisplay, result.Sqm(c.LivingAreaSqm), result.EUR(c.EstimatedValueEUR))
		}
	}
}
