package macro

import (
	"regexp"
	"strings"
)

const paramChar = ' '

var (
	// a command is everything between a start and end char that is neither;
	// excluding the start char makes a '}' close the nearest unclosed '{'.
	commandRegex = regexp.MustCompile(`\{([^{}]+)\}`)

	// every run of non-space chars that is preceded by a space is one arg.
	paramRegex = regexp.MustCompile(` ([^ ]+)`)
)

// Token is a single command span matched in macro text.
type Token struct {
	// Full is the complete matched text, delimiters included, e.g.
	// "{random 1 100}".
	Full string

	// Command is the text strictly between the delimiters, e.g.
	// "random 1 100". It never contains a start or end char.
	Command string

	// Start is the byte offset of Full within the scanned text.
	Start int

	// End is the byte offset just past the end of Full.
	End int
}

// Command is a command token's text split into its keyword and arguments.
type Command struct {
	// Keyword is the text before the first space, or the entire command text
	// if it has no space in it.
	Keyword string

	// Args are the positional arguments that followed the keyword, in
	// left-to-right order.
	Args []string
}

// Scanner lazily finds command tokens in a piece of text. Successive calls to
// Next step through the tokens left to right; matches never overlap.
//
// Scanner should not be used directly; create one with [NewScanner].
type Scanner struct {
	text string
	pos  int
	cur  Token
}

// NewScanner returns a Scanner positioned at the start of text.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text}
}

// Next advances the Scanner to the next command token, which is then available
// through Token. It returns false once there are no more tokens.
func (s *Scanner) Next() bool {
	if s.pos > len(s.text) {
		return false
	}

	loc := commandRegex.FindStringSubmatchIndex(s.text[s.pos:])
	if loc == nil {
		s.pos = len(s.text) + 1
		return false
	}

	s.cur = Token{
		Full:    s.text[s.pos+loc[0] : s.pos+loc[1]],
		Command: s.text[s.pos+loc[2] : s.pos+loc[3]],
		Start:   s.pos + loc[0],
		End:     s.pos + loc[1],
	}
	s.pos += loc[1]

	return true
}

// Token returns the token most recently found by Next.
func (s *Scanner) Token() Token {
	return s.cur
}

// Tokenize returns every command token in text, in the order they occur.
func Tokenize(text string) []Token {
	var tokens []Token

	sc := NewScanner(text)
	for sc.Next() {
		tokens = append(tokens, sc.Token())
	}

	return tokens
}

// ParseCommand splits the text of a command token into its keyword and
// arguments. Arguments are separated by a single space character; runs of
// several spaces never produce empty arguments.
func ParseCommand(text string) Command {
	var cmd Command

	paramsStart := strings.IndexRune(text, paramChar)
	if paramsStart < 0 {
		cmd.Keyword = text
	} else {
		cmd.Keyword = text[:paramsStart]
	}

	for _, m := range paramRegex.FindAllStringSubmatch(text, -1) {
		cmd.Args = append(cmd.Args, m[1])
	}

	return cmd
}
