package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
)

type Executor func(line string)
type Completer func(d prompt.Document) []prompt.Suggest

// MainLoop runs interactive prompt on terminal, otherwise executes stdin line by line.
// Returns when input ends or on Ctrl+D.
func MainLoop(tag string, prefix string, exec Executor, complete Completer) error {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		if prefix == "" {
			prefix = tag + "> "
		}
		prompt.New(prompt.Executor(exec), prompt.Completer(complete),
			prompt.OptionTitle(tag),
			prompt.OptionPrefix(prefix),
		).Run()
		return nil
	}
	return ExecLines(os.Stdin, exec)
}

// ExecLines skips empty lines and # comments.
func ExecLines(r io.Reader, exec Executor) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exec(line)
	}
	return errors.Annotate(scanner.Err(), "cli read")
}

// Suggest filters by word before cursor, empty input suggests nothing.
func Suggest(suggests []prompt.Suggest, d prompt.Document) []prompt.Suggest {
	w := d.GetWordBeforeCursor()
	if w == "" {
		return nil
	}
	return prompt.FilterFuzzy(suggests, w, true)
}
