package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickylabs/scriptvault/internal/store"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var rmCmd = &cobra.Command{
	Use:   "rm <name-or-id>",
	Short: "Delete a script from the vault",
	Long: `Remove a script entirely, including its version history. Execution
history records for the script are kept: the ledger is append-only.`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}

func runRm(cmd *cobra.Command, args []string) error {
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

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		ok, err := ui.Confirm(fmt.Sprintf("Delete %q and its version history?", script.Name), false)
		if err != nil || !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := catalog.Delete(script.ID); err != nil {
		return err
	}
	fmt.Printf("%s deleted %s\n", ui.Success("✓"), script.Name)
	return nil
}
