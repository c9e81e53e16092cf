package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/immowert/internal/screens/history"
	"github.com/abhisek/immowert/internal/store"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect recorded valuation requests",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if !all {
			opts.SessionID = cfg.SessionID
		}
		events, err := s.SubmissionRepo().QuerySubmissions(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query submissions: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No submissions found.")
			return nil
		}

		// Header.
		fmt.Printf("%-5s  %-19s  %-12s  %-4s  %-16s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Session", "Cmp", "Outcome", "Status", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 92))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			cmp := ""
			if e.Comparison {
				cmp = "yes"
			}
			session := e.SessionID
			if len(session) > 12 {
				session = session[:12]
			}
			fmt.Printf("%-5d  %-19s  %-12s  %-4s  %-16s  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				session,
				cmp,
				e.Outcome,
				e.StatusCode,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var submissionsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of a submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.SubmissionRepo().GetSubmission(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get submission: %w", err)
		}
		if e == nil {
			return fmt.Errorf("submission %d not found", id)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:          %d\n", e.ID)
		fmt.Printf("Time:        %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Session:     %s\n", e.SessionID)
		fmt.Printf("Request ID:  %s\n", e.RequestID)
		fmt.Printf("Endpoint:    %s\n", e.Endpoint)
		fmt.Printf("Comparison:  %v\n", e.Comparison)
		fmt.Printf("Outcome:     %s (%s)\n", e.Outcome, history.OutcomeLabel(e.Outcome))
		fmt.Printf("Status:      %d\n", e.StatusCode)
		fmt.Printf("Latency:     %dms\n", e.LatencyMs)
		fmt.Printf("Success:     %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:       %s\n", e.ErrorMessage)
		}

		sections := []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		}
		for _, sec := range sections {
			fmt.Println()
			fmt.Println(sep)
			fmt.Println(sec.title)
			fmt.Println(sep)
			if sec.body != "" {
				fmt.Println(sec.body)
			} else {
				fmt.Println("(not captured)")
			}
		}
		return nil
	},
}

var submissionsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show submission counts and latency by outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.SubmissionRepo().StatsByOutcome(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No submissions recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %-18s  %6s  %8s\n", "Outcome", "", "Count", "Avg Ms")
		fmt.Println(strings.Repeat("─", 54))
		var total int
		for _, st := range stats {
			fmt.Printf("%-16s  %-18s  %6d  %8d\n",
				st.Outcome, history.OutcomeLabel(st.Outcome), st.Count, st.AvgLatencyMs)
			total += st.Count
		}
		fmt.Println(strings.Repeat("─", 54))
		fmt.Printf("%-16s  %-18s  %6d\n", "TOTAL", "", total)
		return nil
	},
}

func init() {
	submissionsListCmd.Flags().Int("limit", 20, "Number of submissions to show")
	submissionsListCmd.Flags().Bool("all", false, "Include every session, not just the current one")

	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsViewCmd)
	submissionsCmd.AddCommand(submissionsStatsCmd)
}
