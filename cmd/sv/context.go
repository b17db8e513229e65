package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rickylabs/scriptvault/internal/snapshot"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the context that would be captured right now",
	Long: `Print the environment fingerprint - directory, git repository,
branch, allow-listed environment variables - that save and run would
attach to a script or execution record from here.`,
	RunE: runContext,
}

func runContext(cmd *cobra.Command, args []string) error {
	snap := snapshot.Capture(cmd.Context())

	fmt.Printf("%s\n\n", ui.Title("Current Context"))
	fmt.Printf("  directory: %s\n", snap.Directory)
	if snap.GitRemote != "" {
		fmt.Printf("  git repo:  %s\n", snap.GitRemote)
		if snap.GitBranch != "" {
			fmt.Printf("  branch:    %s\n", snap.GitBranch)
		}
	} else {
		fmt.Printf("  git repo:  %s\n", ui.Muted("not in a git repository"))
	}

	if len(snap.EnvSubset) > 0 {
		fmt.Printf("\n  environment:\n")
		keys := make([]string, 0, len(snap.EnvSubset))
		for k := range snap.EnvSubset {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %s=%s\n", k, ui.Muted(snap.EnvSubset[k]))
		}
	}
	return nil
}
