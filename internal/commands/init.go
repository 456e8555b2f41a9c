package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tellerdesk/teller/internal/config"
	"github.com/tellerdesk/teller/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var adminSecret string
	var maxAccounts int
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new teller ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, adminSecret, maxAccounts, useGit)
		},
	}

	cmd.Flags().StringVar(&adminSecret, "admin-secret", "", "admin secret (required)")
	_ = cmd.MarkFlagRequired("admin-secret")
	cmd.Flags().IntVar(&maxAccounts, "max-accounts", 100, "maximum number of accounts")
	cmd.Flags().BoolVar(&useGit, "git", false, "version ledger data files with git")

	return cmd
}

func runInit(dir, adminSecret string, maxAccounts int, useGit bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfg := config.Default(adminSecret)
	cfg.Ledger.MaxAccounts = maxAccounts
	cfg.Git.AutoCommit = useGit
	if err := config.Save(filepath.Join(dir, "teller.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// The export file is derived output; keep it out of version control.
	gitignore := cfg.Ledger.ExportFile + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if useGit && !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}

	fmt.Printf("Initialized teller ledger at %s\n", dir)
	return nil
}
