package main

import (
	"fmt"

	"github.com/spf13/cobra"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/history"
	"github.com/rickylabs/scriptvault/internal/store"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info <name-or-id>",
	Short: "Get detailed information about a script",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var versionsCmd = &cobra.Command{
	Use:   "versions <name-or-id>",
	Short: "List a script's previous content versions",
	Long: `Show the version history of a script, oldest first. A new version is
kept every time the script is re-saved with different content.

Use --show N to print the content of version N.`,
	Args: cobra.ExactArgs(1),
	RunE: runVersions,
}

func init() {
	versionsCmd.Flags().Int("show", 0, "Print the full content of version N (1-based)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer catalog.Close()

	script, err := catalog.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", ui.Title("Script: "+script.Name))
	fmt.Printf("  id:          %s\n", ui.Muted(script.ID))
	fmt.Printf("  language:    %s\n", script.Language)
	if script.Description != "" {
		fmt.Printf("  description: %s\n", script.Description)
	}
	if len(script.Tags) > 0 {
		fmt.Printf("  tags:        %s\n", ui.FormatTags(script.Tags))
	}
	fmt.Printf("  created:     %s\n", script.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  updated:     %s\n", script.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  versions:    %d\n", len(script.Versions))

	ctx := script.CreatedContext
	fmt.Printf("\n%s\n", ui.Title("Saved context"))
	if ctx.Directory != "" {
		fmt.Printf("  directory: %s\n", ctx.Directory)
	}
	if ctx.GitRemote != "" {
		fmt.Printf("  git repo:  %s\n", ctx.GitRemote)
		if ctx.GitBranch != "" {
			fmt.Printf("  branch:    %s\n", ctx.GitBranch)
		}
	} else {
		fmt.Printf("  git repo:  %s\n", ui.Muted("not in a repository"))
	}

	// Run statistics come from the ledger, the source of truth for
	// what actually happened.
	ledger, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	records, err := ledger.Query(history.Filter{ScriptID: script.ID})
	if err != nil {
		return err
	}
	var succeeded, failed int
	for _, rec := range records {
		switch rec.Outcome {
		case history.OutcomeSuccess:
			succeeded++
		case history.OutcomeFailure:
			failed++
		}
	}
	fmt.Printf("\n%s\n", ui.Title("Statistics"))
	fmt.Printf("  recorded attempts: %d\n", len(records))
	if succeeded+failed > 0 {
		rate := 100 * float64(succeeded) / float64(succeeded+failed)
		fmt.Printf("  success rate:      %.1f%% (%d/%d real runs)\n", rate, succeeded, succeeded+failed)
	}
	if len(records) > 0 {
		last := records[len(records)-1]
		fmt.Printf("  last attempt:      %s\n", last.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}

	return nil
}

func runVersions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer catalog.Close()

	script, err := catalog.Get(args[0])
	if err != nil {
		return err
	}

	show, _ := cmd.Flags().GetInt("show")
	if show > 0 {
		if show > len(script.Versions) {
			return verrors.Newf(verrors.EUsage,
				"script %q has %d versions, no version %d", script.Name, len(script.Versions), show)
		}
		fmt.Print(script.Versions[show-1].Content)
		return nil
	}

	if len(script.Versions) == 0 {
		fmt.Printf("%s has no previous versions.\n", script.Name)
		return nil
	}

	fmt.Printf("%s\n", ui.Title("Versions of "+script.Name))
	for i, v := range script.Versions {
		lines := 1
		for _, r := range v.Content {
			if r == '\n' {
				lines++
			}
		}
		fmt.Printf("  %d. saved %s (%d lines)\n",
			i+1, v.SavedAt.Local().Format("2006-01-02 15:04:05"), lines)
	}
	fmt.Printf("  %s. current\n", ui.Muted("→"))
	return nil
}
