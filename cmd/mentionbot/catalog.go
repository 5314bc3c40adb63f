package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/mentionbot/internal/config"
	"github.com/abdulachik/mentionbot/internal/keyword"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the connector catalog",
	Long:  `Print the connectors the bot recognises, in match priority order.`,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	catalog := keyword.DefaultCatalog()
	source := "built-in"
	if cfg.CatalogPath != "" {
		catalog, err = keyword.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		source = cfg.CatalogPath
	}

	fmt.Printf("Catalog (%s, %d connectors, match mode %s):\n\n", source, len(catalog), cfg.KeywordMatchMode)
	for i, c := range catalog {
		fmt.Printf("  %2d. %-14s %s\n", i+1, c.Name, c.DocURL)
	}

	return nil
}
