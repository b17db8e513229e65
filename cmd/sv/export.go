package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the script catalog",
	Long: `Write the catalog to stdout (or a file) as markdown, JSON, or YAML.

Examples:
  sv export --format markdown > SCRIPTS.md
  sv export --format yaml --output scripts.yaml`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "markdown", "Export format: markdown, json, or yaml")
	exportCmd.Flags().StringP("output", "o", "", "Output file (stdout if not specified)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	var out io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return verrors.Wrap(verrors.EPersistenceFailure, "create export file", err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(scripts)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(scripts)
	case "markdown", "md":
		return exportMarkdown(out, scripts)
	default:
		return verrors.Newf(verrors.EUsage, "unknown export format: %s (markdown, json, yaml)", format)
	}
}

func exportMarkdown(w io.Writer, scripts []store.Script) error {
	fmt.Fprintln(w, "# Script Vault")
	fmt.Fprintln(w)
	for _, s := range scripts {
		fmt.Fprintf(w, "## %s\n\n", s.Name)
		if s.Description != "" {
			fmt.Fprintf(w, "%s\n\n", s.Description)
		}
		if len(s.Tags) > 0 {
			fmt.Fprintf(w, "Tags: %s\n\n", strings.Join(s.Tags, ", "))
		}
		fmt.Fprintf(w, "```%s\n%s", s.Language, s.Content)
		if !strings.HasSuffix(s.Content, "\n") {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "```")
		fmt.Fprintln(w)
	}
	return nil
}
