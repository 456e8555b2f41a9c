package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tellerdesk/teller/internal/auth"
	"github.com/tellerdesk/teller/internal/config"
	"github.com/tellerdesk/teller/internal/ledger"
	"github.com/tellerdesk/teller/internal/registry"
	"github.com/tellerdesk/teller/internal/snapshot"
	"github.com/tellerdesk/teller/internal/txlog"
)

func newRunCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interactive teller session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runSession(absDir, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")

	return cmd
}

// runSession loads config and snapshot, drives the menu loop, and saves the
// snapshot when the session ends.
func runSession(dir string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(filepath.Join(dir, "teller.yaml"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	accounts, err := snapshot.Load(filepath.Join(dir, cfg.Ledger.DataFile))
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}
	if verrs := registry.Validate(accounts, cfg.Ledger.MaxAccounts); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("account data failed validation: %s", strings.Join(msgs, "; "))
	}

	svc := ledger.New(
		registry.NewFromAccounts(cfg.Ledger.MaxAccounts, accounts),
		auth.New(cfg.Admin.Secret),
		txlog.New(filepath.Join(dir, cfg.Ledger.LogFile)),
	)

	s := &session{svc: svc, cfg: cfg, dir: dir, in: bufio.NewReader(in), out: out}
	return s.loop()
}
