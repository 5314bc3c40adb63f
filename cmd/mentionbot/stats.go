package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/mentionbot/internal/config"
	"github.com/abdulachik/mentionbot/internal/db"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run history",
	Long:  `Display totals and the most recent runs recorded in the database.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "l", 10, "Number of recent runs to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	// Ensure migrations are run
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	totals, err := store.GetRunTotals(ctx)
	if err != nil {
		return fmt.Errorf("get run totals: %w", err)
	}

	runs, err := store.ListRecentRuns(ctx, int64(statsLimit))
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	fmt.Println("=== MentionBot Statistics ===")
	fmt.Println()
	fmt.Printf("Database: %s\n", cfg.DatabasePath)
	fmt.Println()
	fmt.Println("Totals:")
	fmt.Printf("  Runs: %d\n", totals.Runs)
	fmt.Printf("  Posts fetched: %d\n", totals.Fetched)
	fmt.Printf("  Positive / negative / neutral: %d / %d / %d\n", totals.Positive, totals.Negative, totals.Neutral)
	fmt.Printf("  Replies sent: %d\n", totals.Replied)
	fmt.Printf("  Failures: %d\n", totals.Failures)
	fmt.Println()

	if len(runs) == 0 {
		return nil
	}

	fmt.Println("Recent runs:")
	for _, r := range runs {
		fmt.Printf("  %s  %-8s %-20q fetched %3d  +%.0f%% -%.0f%% =%.0f%%  replied %d",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Platform, r.Query, r.Fetched,
			r.PositivePct, r.NegativePct, r.NeutralPct,
			r.Replied,
		)
		if r.Error.Valid {
			fmt.Printf("  error: %s", r.Error.String)
		}
		fmt.Println()
	}
	fmt.Println()

	return nil
}
