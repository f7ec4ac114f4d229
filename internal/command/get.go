package command

import (
	"bufio"
	"fmt"

	"github.com/dekarrin/chatmacro/internal/usererr"
)

// Reader is a type that can be used for getting lines of shell input.
type Reader interface {
	// ReadCommand reads a single line of input. It will block until one is
	// ready. If there is an error or input is at end (EOF), the returned
	// string will be empty, otherwise it will always be non-empty.
	ReadCommand() (string, error)

	// AllowBlank sets whether ReadCommand may return a blank line.
	AllowBlank(allow bool)

	// Close performs any operations required to clean the resources created by
	// the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}

// Get obtains a single command by reading from the provided Reader. Lines
// that cannot be parsed have their error printed to ostream and are skipped
// until a valid command is read.
func Get(cmdStream Reader, ostream *bufio.Writer) (Command, error) {
	var cmd Command
	gotValidCommand := false

	for !gotValidCommand {
		input, err := cmdStream.ReadCommand()
		if err != nil {
			return cmd, fmt.Errorf("could not get input: %w", err)
		}

		cmd, err = ParseCommand(input)
		if err != nil {
			consoleMessage := usererr.ConsoleMessage(err)
			errMsg := fmt.Sprintf("%v\nTry %shelp for valid directives\n", consoleMessage, DirectivePrefix)
			if _, err := ostream.WriteString(errMsg); err != nil {
				return cmd, fmt.Errorf("could not write output: %w", err)
			}
			if err := ostream.Flush(); err != nil {
				return cmd, fmt.Errorf("could not flush output: %w", err)
			}
		} else if cmd.Verb != "" {
			gotValidCommand = true
		}
	}

	return cmd, nil
}
