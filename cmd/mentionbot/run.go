package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/mentionbot/internal/app"
	"github.com/abdulachik/mentionbot/internal/config"
	"github.com/abdulachik/mentionbot/internal/orchestrator"
	"github.com/abdulachik/mentionbot/internal/sentiment"
)

var (
	runQuery  string
	runCount  int
	runDryRun bool
	runList   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search for posts and reply to them",
	Long: `Search the configured platform for posts matching a query, classify each
post's sentiment and reply with the matching template.

Examples:
  mentionbot run --query fivetran                # Reply to up to SEARCH_COUNT posts
  mentionbot run --query "etl pipeline" -n 50    # Reply to up to 50 posts
  mentionbot run --query fivetran --dry-run      # Log replies without posting`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runQuery, "query", "q", "fivetran", "Search query")
	runCmd.Flags().IntVarP(&runCount, "count", "n", 0, "Maximum posts to fetch (default SEARCH_COUNT)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Log replies without posting them")
	runCmd.Flags().BoolVar(&runList, "list", false, "Print every post grouped by sentiment")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForRun(runDryRun); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	count := runCount
	if count == 0 {
		count = cfg.SearchCount
	}

	a, err := app.New(ctx, cfg, runDryRun)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer a.Close()

	slog.Info("starting run",
		"query", runQuery,
		"count", count,
		"platform", cfg.Platform,
		"classifier", a.Classifier.Name(),
		"dry_run", runDryRun,
	)

	report, err := a.Run(ctx, runQuery, count)
	if errors.Is(err, orchestrator.ErrEmptyResultSet) {
		fmt.Printf("No posts found for %q\n", runQuery)
		return nil
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	printReport(report, runList)
	return nil
}

func printReport(report *orchestrator.Report, list bool) {
	fmt.Println()
	fmt.Println(report.Summary())
	fmt.Printf("Took %s\n", report.Duration().Round(time.Millisecond))

	if !list {
		return
	}

	for _, label := range sentiment.Labels {
		posts := report.Partition(label)
		fmt.Printf("\n%s posts:\n", label.Title())
		for i, cp := range posts {
			fmt.Printf("%d. %s\n", i+1, cp.Post.Text)
		}
	}

	fmt.Println("\nReplies:")
	for _, out := range report.Outcomes {
		status := "sent"
		switch {
		case out.Err != nil:
			status = "failed: " + out.Err.Error()
		case out.Result != nil && out.Result.PostURL != "":
			status = out.Result.PostURL
		}
		fmt.Printf("- [%s] %s -> %s (%s)\n", out.Branch, out.Post.ID, out.Reply, status)
	}
}
