package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rickylabs/scriptvault/internal/config"
	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/logging"
)

var (
	// Version information (set via ldflags at build time)
	version = "dev"
	commit  = "unknown"

	// Global logger
	logger *slog.Logger
)

func main() {
	logger = logging.New("info")
	slog.SetDefault(logger)

	ctx := setupSignalHandler()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		verrors.Print(os.Stderr, err)
		os.Exit(verrors.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "sv",
	Short: "ScriptVault - save, find, and safely re-run your shell scripts",
	Long: `ScriptVault keeps a local vault of your shell scripts, remembers the
directory and git repository each one was saved from, scans for
dangerous commands before running anything, and records every
execution attempt in an append-only history.

All state lives under a single vault root (default ~/.scriptvault,
override with SCRIPTVAULT_HOME or --vault-root).`,
	Version:       version + " (commit: " + commit + ")",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("vault-root", "", "Vault root directory (default $SCRIPTVAULT_HOME or ~/.scriptvault)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			logger = logging.New("debug")
			slog.SetDefault(logger)
			logger.Debug("debug logging enabled")
		}
	}

	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(doctorCmd)
}

// loadConfig resolves the vault root from flags/environment and loads
// (or initializes) config.json.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	root, _ := cmd.Flags().GetString("vault-root")
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" {
		if debug, _ := cmd.Flags().GetBool("debug"); !debug {
			logger = logging.New(cfg.LogLevel)
			slog.SetDefault(logger)
		}
	}
	return cfg, nil
}

// setupSignalHandler creates a context that cancels on SIGINT or
// SIGTERM so a running child is signaled instead of orphaned. A second
// signal forces an immediate exit.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()

		sig = <-sigChan
		logger.Warn("received second signal, forcing exit", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
