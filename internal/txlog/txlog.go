// Package txlog is the append-only audit trail of monetary operations. Each
// append is a complete durable write: the file is opened, written, flushed
// and closed within the call, so entries survive a crash that loses the
// in-memory registry.
package txlog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/tellerdesk/teller/internal/model"
)

// timestampFormat is the ctime-style layout used by log lines.
const timestampFormat = time.ANSIC

// Log appends to and reads one transaction log file.
type Log struct {
	path string
}

// New creates a Log over the given file path. The file is created on the
// first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Append records one monetary movement as a single comma-separated line:
// account number, action, amount (2dp), timestamp. Entries with a
// non-positive amount are ignored without error. A zero Timestamp means now.
func (l *Log) Append(e model.Entry) error {
	if !e.Amount.IsPositive() {
		return nil
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening transaction log: %w", err)
	}

	_, err = fmt.Fprintf(f, "%d,%s,%s,%s\n", e.AccountNumber, e.Action, e.Amount.StringFixed(2), ts.Format(timestampFormat))
	if err != nil {
		f.Close()
		return fmt.Errorf("writing transaction log: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing transaction log: %w", err)
	}
	return nil
}

// ReadAll returns every log line in append order. A missing log file is an
// empty history, not an error.
func (l *Log) ReadAll() ([]string, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transaction log: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transaction log: %w", err)
	}
	return lines, nil
}
