package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickylabs/scriptvault/internal/lang"
	"github.com/rickylabs/scriptvault/internal/search"
	"github.com/rickylabs/scriptvault/internal/snapshot"
	"github.com/rickylabs/scriptvault/internal/store"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Find and search scripts",
	Long: `Search the vault by free text, tag, and context.

With --here, results are ordered by how closely each script's saved
context matches the current directory and repository.

Examples:
  sv find deploy
  sv find --tag backup
  sv find --here`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your scripts",
	RunE:  runList,
}

func init() {
	findCmd.Flags().String("tag", "", "Filter by exact tag")
	findCmd.Flags().String("language", "", "Filter by language")
	findCmd.Flags().Bool("here", false, "Rank by relevance to the current context")
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer catalog.Close()

	scripts, err := catalog.List()
	if err != nil {
		return err
	}

	q := search.Query{}
	if len(args) > 0 {
		q.Text = args[0]
	}
	q.Tag, _ = cmd.Flags().GetString("tag")
	if language, _ := cmd.Flags().GetString("language"); language != "" {
		q.Language = lang.Parse(language)
	}
	if here, _ := cmd.Flags().GetBool("here"); here {
		snap := snapshot.Capture(cmd.Context())
		q.Here = &snap
	}

	ranked := search.Rank(scripts, q)
	if len(ranked) == 0 {
		fmt.Println("No scripts found matching your criteria.")
		return nil
	}

	printScriptTable(ranked, q.Here)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer catalog.Close()

	scripts, err := catalog.List()
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		fmt.Println("The vault is empty. Save a script with: sv save <file>")
		return nil
	}

	printScriptTable(scripts, nil)
	return nil
}

func printScriptTable(scripts []store.Script, here *snapshot.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if here != nil {
		fmt.Fprintln(w, "NAME\tLANGUAGE\tTAGS\tCONTEXT\tUPDATED")
	} else {
		fmt.Fprintln(w, "NAME\tLANGUAGE\tTAGS\tUPDATED")
	}
	for _, s := range scripts {
		if here != nil {
			match := snapshot.Compare(s.CreatedContext, *here)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				s.Name, s.Language, ui.FormatTags(s.Tags), match, relativeTime(s.UpdatedAt))
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.Name, s.Language, ui.FormatTags(s.Tags), relativeTime(s.UpdatedAt))
		}
	}
	w.Flush()
}

// relativeTime renders a timestamp as a human-friendly age.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
