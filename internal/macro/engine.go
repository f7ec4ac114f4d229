package macro

import (
	"context"
	"strings"
)

// CommandResolver resolves the text of a single command. *Resolver is the
// standard implementation.
type CommandResolver interface {
	Resolve(ctx context.Context, commandText string) Result
}

// Engine replaces the commands in macro text with their resolved values.
// Engine holds no per-call state and may be used from multiple goroutines at
// once.
type Engine struct {
	resolver CommandResolver
}

// NewEngine creates an Engine that resolves commands with r.
func NewEngine(r CommandResolver) *Engine {
	return &Engine{resolver: r}
}

// ReplaceCommands returns text with every "{command}" span replaced by the
// value the command resolves to.
//
// Commands are resolved one at a time, in the order they appear. If any of
// them resolves to an empty or whitespace-only value, resolution stops and
// ReplaceCommands returns the empty string; a message with some of its
// commands missing is never produced. Text with no commands in it is returned
// unchanged.
//
// Repeated spans are resolved separately, so "{random 1 6} {random 1 6}" rolls
// twice.
func (eng *Engine) ReplaceCommands(ctx context.Context, text string) string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return text
	}

	var sb strings.Builder
	prevEnd := 0

	for _, tok := range tokens {
		res := eng.resolver.Resolve(ctx, tok.Command)
		if res.Empty() {
			return ""
		}

		sb.WriteString(text[prevEnd:tok.Start])
		sb.WriteString(res.Value)
		prevEnd = tok.End
	}
	sb.WriteString(text[prevEnd:])

	return sb.String()
}

// ReplaceCommandsAsync starts ReplaceCommands in a new goroutine. The returned
// channel receives its result exactly once. Callers that stop waiting, for
// instance after a timeout, do not need to drain the channel.
func (eng *Engine) ReplaceCommandsAsync(ctx context.Context, text string) <-chan string {
	out := make(chan string, 1)

	go func() {
		out <- eng.ReplaceCommands(ctx, text)
	}()

	return out
}
