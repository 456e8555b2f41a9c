// Package terminal reads credentials without echoing them.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// maxLen matches the longest credential the ledger stores.
const maxLen = 19

// ReadMasked prompts for a secret, echoing '*' per typed character.
// Backspace removes the last captured character and its echo; input is
// capped at maxLen characters. When stdin is not a terminal the secret is
// read as a plain line from r, so scripted sessions keep working.
func ReadMasked(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if len(line) > maxLen {
			line = line[:maxLen]
		}
		return line, nil
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, old)

	var buf []byte
	b := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(b); err != nil {
			fmt.Print("\r\n")
			return "", err
		}
		switch c := b[0]; {
		case c == '\r' || c == '\n':
			fmt.Print("\r\n")
			return string(buf), nil
		case c == '\b' || c == 0x7f:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				fmt.Print("\b \b")
			}
		case c == 0x03: // Ctrl-C
			fmt.Print("\r\n")
			return "", errors.New("interrupted")
		case c >= 0x20 && c < 0x7f:
			if len(buf) < maxLen {
				buf = append(buf, c)
				fmt.Print("*")
			}
		}
	}
}
