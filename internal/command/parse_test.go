package command

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/dekarrin/chatmacro/internal/usererr"
	"github.com/stretchr/testify/assert"
)

func Test_ParseCommand(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr string
	}{
		{
			name:   "blank line",
			input:  "   ",
			expect: Command{},
		},
		{
			name:   "macro text",
			input:  "Meet at {wp} in {map}",
			expect: Command{Verb: "EXPAND", Text: "Meet at {wp} in {map}"},
		},
		{
			name:   "escaped prefix",
			input:  "::) {time}",
			expect: Command{Verb: "EXPAND", Text: ":) {time}"},
		},
		{
			name:   "quit",
			input:  ":quit",
			expect: Command{Verb: "QUIT"},
		},
		{
			name:   "quit alias mixed case",
			input:  ":Q",
			expect: Command{Verb: "QUIT"},
		},
		{
			name:   "map",
			input:  ":map 15",
			expect: Command{Verb: "MAP", Args: []string{"15"}},
		},
		{
			name:   "goto alias",
			input:  ":goto 50",
			expect: Command{Verb: "MAP", Args: []string{"50"}},
		},
		{
			name:   "pos",
			input:  ":pos 10.5 0 -42",
			expect: Command{Verb: "POS", Args: []string{"10.5", "0", "-42"}},
		},
		{
			name:   "help with topic",
			input:  ":help random",
			expect: Command{Verb: "HELP", Args: []string{"random"}},
		},
		{
			name:   "keys",
			input:  ":commands",
			expect: Command{Verb: "KEYS"},
		},
		{
			name:      "map without id",
			input:     ":map",
			expectErr: "Give the ID of the map to go to, e.g. :map 15",
		},
		{
			name:      "map with bad id",
			input:     ":map queensdale",
			expectErr: `"queensdale" is not a map ID; map IDs are whole numbers`,
		},
		{
			name:      "pos with bad number",
			input:     ":pos 1 two 3",
			expectErr: `"two" is not a number`,
		},
		{
			name:      "quit with args",
			input:     ":quit now",
			expectErr: ":quit does not take any arguments",
		},
		{
			name:      "unknown directive",
			input:     ":dance",
			expectErr: "I don't know the directive :dance",
		},
		{
			name:      "bare prefix",
			input:     ":",
			expectErr: `Give a directive after ":"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseCommand(tc.input)
			if tc.expectErr != "" {
				assert.Error(err)
				assert.Equal(tc.expectErr, usererr.ConsoleMessage(err))
				return
			}

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

type linesReader struct {
	lines []string
}

func (lr *linesReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *linesReader) AllowBlank(allow bool) {}

func (lr *linesReader) Close() error {
	return nil
}

func Test_Get(t *testing.T) {
	assert := assert.New(t)

	in := &linesReader{lines: []string{":dance", "", ":map 15"}}
	var outBuf bytes.Buffer
	out := bufio.NewWriter(&outBuf)

	cmd, err := Get(in, out)

	assert.NoError(err)
	assert.Equal(Command{Verb: "MAP", Args: []string{"15"}}, cmd)
	assert.True(strings.HasPrefix(outBuf.String(), "I don't know the directive :dance\n"))
	assert.Contains(outBuf.String(), "Try :help")
}

func Test_Get_eof(t *testing.T) {
	assert := assert.New(t)

	var outBuf bytes.Buffer
	_, err := Get(&linesReader{}, bufio.NewWriter(&outBuf))

	assert.ErrorIs(err, io.EOF)
}
