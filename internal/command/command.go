// Package command defines the commands of the interactive macro shell and
// handles parsing them from input lines.
package command

// Command is a valid command received from the shell input.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as
	// "EXPAND", "MAP", or "QUIT". Some verbs have shorthand forms; for
	// instance ":q" gives a Command with a verb of QUIT.
	Verb string

	// Args are the arguments that followed a directive. They have already
	// been checked to be valid for the verb.
	Args []string

	// Text is the macro text to expand. It is only set for EXPAND.
	Text string
}
