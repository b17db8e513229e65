package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rickylabs/scriptvault/internal/history"
	"github.com/rickylabs/scriptvault/internal/store"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history [script]",
	Short: "View script execution history",
	Long: `Show recorded execution attempts, newest first by default.

The history is append-only: every run, dry run, and declined
confirmation leaves exactly one record.

Examples:
  sv history
  sv history deploy --failed
  sv history --limit 50 --oldest-first`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Bool("failed", false, "Show only failed runs")
	historyCmd.Flags().Int("limit", 20, "Maximum number of records to show")
	historyCmd.Flags().Bool("oldest-first", false, "Show records in append order")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ledger, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}

	filter := history.Filter{Reverse: true}
	if oldest, _ := cmd.Flags().GetBool("oldest-first"); oldest {
		filter.Reverse = false
	}
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	if failed, _ := cmd.Flags().GetBool("failed"); failed {
		filter.Outcome = history.OutcomeFailure
	}

	if len(args) > 0 {
		// Resolve through the catalog so prefixes and ids both work;
		// fall back to filtering by recorded name for deleted scripts.
		catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
		if err != nil {
			return err
		}
		script, err := catalog.Get(args[0])
		catalog.Close()
		if err == nil {
			filter.ScriptID = script.ID
		} else {
			filter.ScriptName = args[0]
		}
	}

	records, err := ledger.Query(filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No execution history found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSCRIPT\tOUTCOME\tEXIT\tDURATION")
	for _, rec := range records {
		exit := "-"
		if rec.ExitCode != nil {
			exit = fmt.Sprintf("%d", *rec.ExitCode)
		}
		outcome := string(rec.Outcome)
		if rec.DryRun {
			outcome = "dry-run"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rec.ScriptName,
			formatOutcome(outcome),
			exit,
			formatDuration(rec.DurationMS))
	}
	return w.Flush()
}

func formatOutcome(outcome string) string {
	switch outcome {
	case string(history.OutcomeSuccess):
		return ui.Success(outcome)
	case string(history.OutcomeFailure):
		return ui.Error(outcome)
	case string(history.OutcomeAborted):
		return ui.Warning(outcome)
	default:
		return ui.Muted(outcome)
	}
}
