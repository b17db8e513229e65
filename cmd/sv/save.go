package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/lang"
	"github.com/rickylabs/scriptvault/internal/safety"
	"github.com/rickylabs/scriptvault/internal/snapshot"
	"github.com/rickylabs/scriptvault/internal/store"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var saveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save a script to your vault",
	Long: `Save a script file into the vault, capturing the current directory
and git context alongside it.

Saving an existing name with changed content keeps the previous
content as a version; the script id never changes.

Examples:
  sv save deploy.sh --tags "deploy,prod" --description "Deploy to prod"
  sv save backup.py --name nightly-backup`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().String("name", "", "Script name (default: file name without extension)")
	saveCmd.Flags().String("tags", "", "Comma- or space-separated tags")
	saveCmd.Flags().StringP("description", "d", "", "Description of the script")
	saveCmd.Flags().String("language", "", "Interpreter language (default: inferred from extension/shebang)")
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return verrors.Wrap(verrors.EUsage, fmt.Sprintf("read script file %s", path), err)
	}
	content := string(data)

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	language := lang.Detect(path, content)
	if declared, _ := cmd.Flags().GetString("language"); declared != "" {
		language = lang.Parse(declared)
	}

	tagsFlag, _ := cmd.Flags().GetString("tags")
	description, _ := cmd.Flags().GetString("description")

	catalog, err := store.NewCatalog(cfg.StoreDriver, cfg.CatalogPath())
	if err != nil {
		return err
	}
	defer catalog.Close()

	script := store.Script{
		Name:           name,
		Content:        content,
		Language:       language,
		Tags:           splitTags(tagsFlag),
		Description:    description,
		CreatedContext: snapshot.Capture(cmd.Context()),
	}

	// Advisory scan at save time: the script is stored either way, the
	// warning just tells the user what run will flag later.
	if verdict := safety.Scan(content); verdict.Risky {
		fmt.Fprintln(os.Stderr, ui.Warning("warning: script contains potentially dangerous commands"))
		for _, m := range verdict.Matches {
			fmt.Fprintf(os.Stderr, "  %s %s\n", ui.Warning("["+m.PatternID+"]"), m.Explanation)
		}
	}

	id, err := catalog.Put(script)
	if err != nil {
		return err
	}

	saved, err := catalog.Get(id)
	if err != nil {
		return err
	}

	fmt.Printf("%s saved %s (%s)\n", ui.Success("✓"), ui.Title(saved.Name), saved.Language)
	fmt.Printf("  id: %s\n", ui.Muted(saved.ID))
	if len(saved.Tags) > 0 {
		fmt.Printf("  tags: %s\n", ui.FormatTags(saved.Tags))
	}
	if n := len(saved.Versions); n > 0 {
		fmt.Printf("  previous versions kept: %d\n", n)
	}
	return nil
}

// splitTags accepts comma- or whitespace-separated tag lists.
func splitTags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var tags []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tags = append(tags, f)
		}
	}
	return tags
}
