package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/rickylabs/scriptvault/internal/history"
	"github.com/rickylabs/scriptvault/internal/lang"
	"github.com/rickylabs/scriptvault/internal/store"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check vault health and available interpreters",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Printf("%s\n\n", ui.Title("ScriptVault Doctor"))

	failures := 0
	check := func(name string, err error) {
		if err != nil {
			failures++
			fmt.Printf("  %s %s: %v\n", ui.Error("✗"), name, err)
			return
		}
		fmt.Printf("  %s %s\n", ui.Success("✓"), name)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		check("config.json", err)
		fmt.Println()
		fmt.Println(ui.Error("Cannot continue without a valid configuration."))
		return nil
	}
	check(fmt.Sprintf("config.json (%s)", cfg.ConfigPath()), nil)

	if _, statErr := os.Stat(cfg.VaultDirPath()); statErr != nil {
		check("vault directory", statErr)
	} else {
		check(fmt.Sprintf("vault directory (%s)", cfg.VaultDirPath()), nil)
	}

	catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
	if err != nil {
		check("catalog", err)
	} else {
		scripts, listErr := catalog.List()
		if listErr != nil {
			check("catalog", listErr)
		} else {
			check(fmt.Sprintf("catalog (%d scripts, %s driver)", len(scripts), cfg.StoreDriver), nil)
		}
		catalog.Close()
	}

	if ledger, openErr := history.Open(cfg.HistoryPath()); openErr != nil {
		check("history ledger", openErr)
	} else if records, queryErr := ledger.Query(history.Filter{}); queryErr != nil {
		check("history ledger", queryErr)
	} else {
		check(fmt.Sprintf("history ledger (%d records)", len(records)), nil)
	}

	fmt.Printf("\n%s\n\n", ui.Title("Interpreters"))
	for _, l := range []lang.Language{lang.Bash, lang.Shell, lang.Python, lang.JavaScript, lang.Ruby, lang.Perl} {
		interp := l.Interpreter()
		if path, lookErr := exec.LookPath(interp); lookErr != nil {
			fmt.Printf("  %s %s (%s not found)\n", ui.Warning("-"), l, interp)
		} else {
			fmt.Printf("  %s %s (%s)\n", ui.Success("✓"), l, path)
		}
	}

	fmt.Println()
	if failures == 0 {
		fmt.Println(ui.Success("All checks passed."))
	} else {
		fmt.Println(ui.Error(fmt.Sprintf("%d check(s) failed.", failures)))
	}
	return nil
}
