package command

import (
	"strconv"
	"strings"

	"github.com/dekarrin/chatmacro/internal/usererr"
)

// DirectivePrefix starts every line that is a shell directive rather than
// macro text. Doubling it escapes it.
const DirectivePrefix = ":"

var (
	// VerbAliases maps shorthand directive names to their canonical forms.
	// They are all uppercase.
	VerbAliases map[string]string = map[string]string{
		"Q":        "QUIT",
		"EXIT":     "QUIT",
		"BYE":      "QUIT",
		"?":        "HELP",
		"H":        "HELP",
		"GOTO":     "MAP",
		"POSITION": "POS",
		"AT":       "POS",
		"LOC":      "WHERE",
		"LOCATION": "WHERE",
		"COMMANDS": "KEYS",
		"KEYWORDS": "KEYS",
	}
)

// ParseCommand parses a command from the given line of input. If it cannot, a
// non-nil error is returned that has a message for the console.
//
// Lines that do not start with DirectivePrefix are macro text and give an
// EXPAND command. An empty or whitespace-only line gives a zero Command and a
// nil error.
func ParseCommand(toParse string) (Command, error) {
	var parsedCmd Command

	if strings.TrimSpace(toParse) == "" {
		return parsedCmd, nil
	}

	if !strings.HasPrefix(toParse, DirectivePrefix) {
		parsedCmd.Verb = "EXPAND"
		parsedCmd.Text = toParse
		return parsedCmd, nil
	}
	if strings.HasPrefix(toParse, DirectivePrefix+DirectivePrefix) {
		parsedCmd.Verb = "EXPAND"
		parsedCmd.Text = toParse[len(DirectivePrefix):]
		return parsedCmd, nil
	}

	originalTokens := strings.Fields(toParse[len(DirectivePrefix):])
	if len(originalTokens) < 1 {
		return parsedCmd, usererr.Newf("Give a directive after %q", DirectivePrefix)
	}

	verb := strings.ToUpper(originalTokens[0])
	if canonical, ok := VerbAliases[verb]; ok {
		verb = canonical
	}
	args := originalTokens[1:]

	parsedCmd.Verb = verb

	switch verb {
	case "QUIT", "WHERE", "MAPS", "KEYS":
		if len(args) > 0 {
			return parsedCmd, usererr.Newf("%s%s does not take any arguments", DirectivePrefix, originalTokens[0])
		}
	case "HELP":
		if len(args) > 1 {
			return parsedCmd, usererr.Newf("%s%s takes at most one topic", DirectivePrefix, originalTokens[0])
		}
		parsedCmd.Args = args
	case "MAP":
		if len(args) != 1 {
			return parsedCmd, usererr.Newf("Give the ID of the map to go to, e.g. %smap 15", DirectivePrefix)
		}
		if _, err := strconv.Atoi(args[0]); err != nil {
			return parsedCmd, usererr.Wrapf(err, "%q is not a map ID; map IDs are whole numbers", args[0])
		}
		parsedCmd.Args = args
	case "POS":
		if len(args) != 3 {
			return parsedCmd, usererr.Newf("Give the X, Y, and Z position in meters, e.g. %spos 10.5 0 -42", DirectivePrefix)
		}
		for _, a := range args {
			if _, err := strconv.ParseFloat(a, 64); err != nil {
				return parsedCmd, usererr.Wrapf(err, "%q is not a number", a)
			}
		}
		parsedCmd.Args = args
	default:
		return parsedCmd, usererr.Newf("I don't know the directive %s%s", DirectivePrefix, originalTokens[0])
	}

	return parsedCmd, nil
}
