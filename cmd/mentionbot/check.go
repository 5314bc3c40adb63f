package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/mentionbot/internal/app"
	"github.com/abdulachik/mentionbot/internal/config"
	"github.com/abdulachik/mentionbot/internal/health"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check platform credentials and collaborators",
	Long: `Validate configuration and the posting credentials for the configured
platform, and probe the search and sentiment backends with a tiny request.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	tracker := health.NewTracker()

	tracker.Check(ctx, "config", func(ctx context.Context) error {
		return cfg.ValidateForRun(false)
	})

	tracker.Check(ctx, "replier", func(ctx context.Context) error {
		return app.NewReplier(cfg, false).ValidateCredentials(ctx)
	})

	tracker.Check(ctx, "searcher", func(ctx context.Context) error {
		_, err := app.NewSearcher(cfg).Search(ctx, "fivetran", 1)
		return err
	})

	tracker.Check(ctx, "classifier", func(ctx context.Context) error {
		_, err := app.NewClassifier(cfg).Classify(ctx, "this is great")
		return err
	})

	tracker.Check(ctx, "engine", func(ctx context.Context) error {
		_, err := app.NewEngine(cfg)
		return err
	})

	fmt.Printf("Platform: %s\n\n", cfg.Platform)
	for _, s := range tracker.All() {
		mark := "ok  "
		if !s.Healthy {
			mark = "FAIL"
		}
		fmt.Printf("  [%s] %-10s %s\n", mark, s.Name, s.Message)
	}
	fmt.Println()

	if !tracker.Healthy() {
		return fmt.Errorf("one or more checks failed")
	}
	return nil
}
