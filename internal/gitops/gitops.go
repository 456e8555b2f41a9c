// Package gitops versions the ledger data files with git, giving the
// snapshot and transaction log a history beyond the latest save.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// CommitPaths stages the given paths (relative to dir) and commits them.
// Paths that do not exist yet are skipped. Returns the short commit hash, or
// an empty string when there was nothing to commit.
func CommitPaths(dir, message, authorName, authorEmail string, paths ...string) (string, error) {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(dir, p)); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return "", nil
	}

	add := exec.Command("git", append([]string{"add", "--"}, existing...)...)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Nothing staged means the data files are unchanged since the last save.
	diff := exec.Command("git", "diff", "--cached", "--quiet")
	diff.Dir = dir
	if err := diff.Run(); err == nil {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)
	commit := exec.Command("git", "commit", "-m", message, "--author", author)
	commit.Dir = dir
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
