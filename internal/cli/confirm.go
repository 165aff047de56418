package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotInteractive is returned when a confirmation is needed but nobody can
// answer it.
var ErrNotInteractive = errors.New("confirmation required: rerun with --yes")

// Confirm asks a yes/no question on out and reads the answer from in. "y",
// "yes", "c" and "có" count as yes, in any case. EOF counts as no.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "c", "có":
		return true, nil
	default:
		return false, nil
	}
}
