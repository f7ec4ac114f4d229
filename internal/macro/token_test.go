package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Tokenize(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []Token
	}{
		{
			name:   "no commands",
			input:  "just some text",
			expect: nil,
		},
		{
			name:   "empty braces are not a command",
			input:  "a {} b",
			expect: nil,
		},
		{
			name:  "single command",
			input: "Hello {today}!",
			expect: []Token{
				{Full: "{today}", Command: "today", Start: 6, End: 13},
			},
		},
		{
			name:  "command with args",
			input: "{random 1 100}",
			expect: []Token{
				{Full: "{random 1 100}", Command: "random 1 100", Start: 0, End: 14},
			},
		},
		{
			name:  "several commands left to right",
			input: "{map} - {wp}",
			expect: []Token{
				{Full: "{map}", Command: "map", Start: 0, End: 5},
				{Full: "{wp}", Command: "wp", Start: 8, End: 12},
			},
		},
		{
			name:  "repeated command matched each time",
			input: "{time}{time}",
			expect: []Token{
				{Full: "{time}", Command: "time", Start: 0, End: 6},
				{Full: "{time}", Command: "time", Start: 6, End: 12},
			},
		},
		{
			name:  "end closes nearest start",
			input: "{a{b}",
			expect: []Token{
				{Full: "{b}", Command: "b", Start: 2, End: 5},
			},
		},
		{
			name:  "unclosed start ignored",
			input: "{oops and {time}",
			expect: []Token{
				{Full: "{time}", Command: "time", Start: 10, End: 16},
			},
		},
		{
			name:  "stray end ignored",
			input: "} {time} }",
			expect: []Token{
				{Full: "{time}", Command: "time", Start: 2, End: 8},
			},
		},
		{
			name:  "multi-byte text before command",
			input: "größe {map}",
			expect: []Token{
				{Full: "{map}", Command: "map", Start: 8, End: 13},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Tokenize(tc.input)

			assert.Equal(tc.expect, actual)
			for _, tok := range actual {
				assert.Equal(tok.Full, tc.input[tok.Start:tok.End])
				assert.NotContains(tok.Command, "{")
				assert.NotContains(tok.Command, "}")
			}
		})
	}
}

func Test_Scanner_isLazy(t *testing.T) {
	assert := assert.New(t)

	sc := NewScanner("{a} {b} {c}")

	assert.True(sc.Next())
	assert.Equal("a", sc.Token().Command)
	assert.True(sc.Next())
	assert.Equal("b", sc.Token().Command)
	assert.True(sc.Next())
	assert.Equal("c", sc.Token().Command)
	assert.False(sc.Next())
	assert.False(sc.Next())
}

func Test_ParseCommand(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect Command
	}{
		{
			name:   "keyword only",
			input:  "time",
			expect: Command{Keyword: "time"},
		},
		{
			name:   "two args",
			input:  "random 1 100",
			expect: Command{Keyword: "random", Args: []string{"1", "100"}},
		},
		{
			name:   "json args keep their text",
			input:  "json data.name https://example.com/api?x=1",
			expect: Command{Keyword: "json", Args: []string{"data.name", "https://example.com/api?x=1"}},
		},
		{
			name:   "runs of spaces give no empty args",
			input:  "random  5   10",
			expect: Command{Keyword: "random", Args: []string{"5", "10"}},
		},
		{
			name:   "trailing space",
			input:  "time ",
			expect: Command{Keyword: "time"},
		},
		{
			name:   "leading space gives empty keyword",
			input:  " time",
			expect: Command{Keyword: "", Args: []string{"time"}},
		},
		{
			name:   "tabs are not separators",
			input:  "txt a\tb",
			expect: Command{Keyword: "txt", Args: []string{"a\tb"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ParseCommand(tc.input)

			assert.Equal(tc.expect, actual)
		})
	}
}
