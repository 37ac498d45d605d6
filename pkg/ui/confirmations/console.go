// Package confirmations provides UI implementations for confirmation dialogs.
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
)

// maxDetails is how many detail lines are listed before summarizing.
const maxDetails = 10

// ConsoleDialog asks yes/no questions on a terminal. It satisfies
// engine.Confirmer.
type ConsoleDialog struct {
	in     *bufio.Reader
	out    io.Writer
	assume bool
}

// NewConsoleDialog creates a dialog reading answers from in and writing
// prompts to out.
func NewConsoleDialog(in io.Reader, out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{in: bufio.NewReader(in), out: out}
}

// AssumeYes makes every question answer itself with yes, without prompting.
func (d *ConsoleDialog) AssumeYes(yes bool) *ConsoleDialog {
	d.assume = yes
	return d
}

// Confirm prints question with its details and reads a [y/N] answer. Only
// "y" and "yes" approve; an empty answer or end of input declines.
func (d *ConsoleDialog) Confirm(question string, details []string) (bool, error) {
	if d.assume {
		return true, nil
	}

	if len(details) > 0 {
		shown := details
		if len(shown) > maxDetails {
			shown = shown[:maxDetails]
		}
		for _, line := range shown {
			fmt.Fprintf(d.out, "  - %s\n", line)
		}
		if rest := len(details) - len(shown); rest > 0 {
			fmt.Fprintf(d.out, "  ... and %d more\n", rest)
		}
	}
	fmt.Fprintf(d.out, "%s [y/N]: ", strings.TrimSpace(question))

	line, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, errors.ErrIO, "failed to read user input")
	}
	if err == io.EOF && line == "" {
		fmt.Fprintln(d.out)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
