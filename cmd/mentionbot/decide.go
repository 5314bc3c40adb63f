package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/mentionbot/internal/app"
	"github.com/abdulachik/mentionbot/internal/config"
	"github.com/abdulachik/mentionbot/internal/sentiment"
)

var decideSentiment string

var decideCmd = &cobra.Command{
	Use:   "decide [text]",
	Short: "Show the reply for a piece of text",
	Long: `Classify text (unless --sentiment is given) and print the reply branch and
rendered reply without posting anything.

Examples:
  mentionbot decide "Fivetran's postgres connector keeps failing"
  mentionbot decide --sentiment positive "love fivetran"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecide,
}

func init() {
	decideCmd.Flags().StringVarP(&decideSentiment, "sentiment", "s", "", "Sentiment label to use instead of classifying (positive, negative, neutral)")
	rootCmd.AddCommand(decideCmd)
}

func runDecide(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForClassifier(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	engine, err := app.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	var label sentiment.Label
	if decideSentiment != "" {
		label, err = sentiment.ParseLabel(decideSentiment)
		if err != nil {
			return err
		}
	} else {
		classifier := app.NewClassifier(cfg)
		label, err = classifier.Classify(ctx, sentiment.Clean(text))
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}
	}

	d, err := engine.Explain(ctx, text, label)
	if err != nil {
		return fmt.Errorf("decide: %w", err)
	}

	fmt.Printf("Cleaned:   %s\n", sentiment.Clean(text))
	fmt.Printf("Sentiment: %s\n", label)
	fmt.Printf("Branch:    %s\n", d.Branch)
	if d.Connector != "" {
		fmt.Printf("Connector: %s\n", d.Connector)
	}
	fmt.Printf("Topic:     %s\n", d.Topic)
	fmt.Println()
	fmt.Println(d.Text)

	return nil
}
