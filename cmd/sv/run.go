package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickylabs/scriptvault/internal/engine"
	"github.com/rickylabs/scriptvault/internal/history"
	"github.com/rickylabs/scriptvault/internal/snapshot"
	"github.com/rickylabs/scriptvault/internal/store"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run <name-or-id> [args...]",
	Short: "Run a script from your vault",
	Long: `Execute a saved script as a child process, passing any extra
arguments through to it. The script is scanned for dangerous commands
first; risky scripts require confirmation unless --yes is given.

Every attempt - including dry runs and declined confirmations - is
recorded in the execution history.

Examples:
  sv run deploy -- --env staging
  sv run nightly-backup --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "Show what would run without executing")
	runCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	autoYes, _ := cmd.Flags().GetBool("yes")

	catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer catalog.Close()

	ledger, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}

	eng := engine.New(catalog, ledger, ui.ConfirmRisky, logger)

	res, err := eng.Run(cmd.Context(), args[0], args[1:], engine.Options{
		DryRun:         dryRun,
		ConfirmIfRisky: cfg.ConfirmBeforeRun,
		AutoYes:        autoYes,
	})
	if err != nil {
		return err
	}

	// Context mismatch is advisory: surface it, never block on it.
	if res.ContextMatch != snapshot.Identical {
		reportContextMismatch(res)
	}

	switch {
	case res.Record.Outcome == history.OutcomeAborted:
		fmt.Println("Execution cancelled.")
		return nil
	case res.Record.DryRun:
		reportDryRun(res)
		return nil
	case res.Record.Outcome == history.OutcomeSuccess:
		fmt.Printf("%s %s completed in %s\n",
			ui.Success("✓"), res.Script.Name, formatDuration(res.Record.DurationMS))
		return nil
	default:
		exitCode := 1
		if res.Record.ExitCode != nil {
			exitCode = *res.Record.ExitCode
		}
		fmt.Printf("%s %s failed with exit code %d after %s\n",
			ui.Error("✗"), res.Script.Name, exitCode, formatDuration(res.Record.DurationMS))
		// Propagate the script's own exit code. The record is already
		// durable and the catalog holds no open handles at this point.
		catalog.Close()
		os.Exit(exitCode)
		return nil
	}
}

func reportContextMismatch(res *engine.Result) {
	saved := res.Script.CreatedContext
	fmt.Fprintf(os.Stderr, "%s context differs from where this script was saved (%s)\n",
		ui.Warning("note:"), res.ContextMatch)
	if saved.Directory != "" {
		fmt.Fprintf(os.Stderr, "  saved in: %s\n", ui.Muted(saved.Directory))
	}
	if saved.GitRemote != "" {
		fmt.Fprintf(os.Stderr, "  saved repo: %s", ui.Muted(saved.GitRemote))
		if saved.GitBranch != "" {
			fmt.Fprintf(os.Stderr, " (%s)", ui.Muted(saved.GitBranch))
		}
		fmt.Fprintln(os.Stderr)
	}
}

func reportDryRun(res *engine.Result) {
	fmt.Printf("%s dry run - nothing executed\n", ui.Warning("▸"))
	fmt.Printf("  would run: %s %s", res.Script.Language.Interpreter(), res.Script.Name)
	for _, a := range res.Record.Args {
		fmt.Printf(" %s", a)
	}
	fmt.Println()
	if res.Verdict.Risky {
		fmt.Printf("  safety: %s", ui.Warning("risky"))
		for _, m := range res.Verdict.Matches {
			fmt.Printf(" [%s]", m.PatternID)
		}
		fmt.Println()
	} else {
		fmt.Printf("  safety: %s\n", ui.Success("safe"))
	}
	fmt.Printf("  context: %s\n", res.ContextMatch)
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
}
