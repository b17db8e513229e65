package main

import (
	"fmt"

	"github.com/spf13/cobra"

	verrors "github.com/rickylabs/scriptvault/internal/errors"
	"github.com/rickylabs/scriptvault/internal/ui"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage local authentication",
	Long: `ScriptVault runs in local-only mode: the token is stored in
config.json and marks the vault as initialized for future sync. There
is no remote validation.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().String("token", "", "API token")
	authLoginCmd.Flags().String("username", "", "Username to record")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		return verrors.New(verrors.EUsage, "a token is required: sv auth login --token YOUR_API_KEY")
	}

	cfg.AuthToken = token
	if username, _ := cmd.Flags().GetString("username"); username != "" {
		cfg.Username = username
	} else if cfg.Username == "" {
		cfg.Username = "local"
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("%s authenticated as %s\n", ui.Success("✓"), cfg.Username)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cfg.AuthToken = ""
	cfg.Username = ""
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("%s logged out\n", ui.Success("✓"))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n", ui.Title("Authentication Status"))
	if cfg.IsAuthenticated() {
		fmt.Printf("  status: %s\n", ui.Success("authenticated"))
		fmt.Printf("  user:   %s\n", cfg.Username)
	} else {
		fmt.Printf("  status: %s\n", ui.Muted("not authenticated (local-only mode)"))
	}
	return nil
}
