// Package prompt asks yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// Questions asked by the commands.
const (
	ConfirmUpdate = "Update durchführen? Bei nein wird nur angezeigt, was sich verändert hat und nichts an der DB geändert (j/n)"
	ConfirmPurge  = "Wirklich alle Tags und Fragen löschen?!? (j/n)"
)

var yes = map[string]bool{
	"j":   true,
	"ja":  true,
	"y":   true,
	"yes": true,
}

// IsYes reports whether answer is an affirmative answer, German or English.
func IsYes(answer string) bool {
	return yes[strings.ToLower(strings.TrimSpace(answer))]
}

// Confirm writes question to out and reads one line from in.
// Anything but j, ja, y or yes is a no, including end of input.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s ", question); err != nil {
		return false, errors.WrapIO("write", "prompt", err)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.WrapIO("read", "prompt", err)
	}
	return IsYes(line), nil
}
