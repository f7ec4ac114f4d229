package chatmacro

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/dekarrin/chatmacro/internal/command"
	"github.com/dekarrin/chatmacro/internal/input"
	"github.com/dekarrin/chatmacro/internal/location"
	"github.com/dekarrin/chatmacro/internal/usererr"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

// SuppressedNotice is printed in place of an expansion that was suppressed.
const SuppressedNotice = "(message suppressed: a command had no value)"

var helpTopics = map[string]string{
	"":      "Type macro text to expand it, e.g. \"Meet me at {wp} in {map}\". Lines starting with ':' are directives: :map ID, :pos X Y Z, :where, :maps, :keys, :help [TOPIC], and :quit. Start a line with '::' to expand text that begins with ':'.",
	"map":   ":map ID moves you to the map with the given ID. Use :maps to see the IDs in the catalog.",
	"pos":   ":pos X Y Z sets your position on the current map, in meters. Y is up.",
	"where": ":where shows your current map and the closest waypoint and point of interest.",
	"maps":  ":maps lists every map in the catalog.",
	"keys":  ":keys lists every macro command and the arguments it takes.",
	"quit":  ":quit leaves the shell.",
}

// Shell reads macro text and directives from an input stream and writes the
// expanded text to an output stream.
type Shell struct {
	exp         *Expander
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// New creates a new Shell ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and
// a buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. When both are the terminal and
// forceDirectInput is false, lines are read with readline and kept in
// historyFile if it is set.
func New(exp *Expander, inputStream io.Reader, outputStream io.Writer, forceDirectInput bool, historyFile string) (*Shell, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	sh := &Shell{
		exp:         exp,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		sh.in, err = input.NewInteractiveReader(historyFile)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sh.in = input.NewDirectReader(inputStream)
	}

	return sh, nil
}

// Close closes all resources associated with the Shell, including any
// readline-related resources created for interactive mode.
func (sh *Shell) Close() error {
	if sh.running {
		return fmt.Errorf("cannot close a running shell")
	}

	if err := sh.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit reads lines from the input stream and expands or executes them
// until the QUIT directive is received or input ends.
func (sh *Shell) RunUntilQuit(ctx context.Context) error {
	introMsg := "ChatMacro Shell\n"
	if sh.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===============\n"
	introMsg += "Type :help for help\n"

	if err := sh.write(introMsg); err != nil {
		return err
	}

	sh.running = true
	defer func() {
		sh.running = false
	}()

	for sh.running {
		cmd, err := command.Get(sh.in, sh.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			sh.running = false
			break
		}

		msg, err := sh.execute(ctx, cmd)
		if err != nil {
			msg = usererr.ConsoleMessage(err)
		}
		if msg != "" {
			if err := sh.write(wrapLines(msg) + "\n"); err != nil {
				return err
			}
		}
	}

	return sh.write("Goodbye\n")
}

func (sh *Shell) execute(ctx context.Context, cmd command.Command) (string, error) {
	switch cmd.Verb {
	case "EXPAND":
		exp := sh.exp.Expand(ctx, cmd.Text)
		if exp.Suppressed {
			return SuppressedNotice, nil
		}
		return exp.Result, nil
	case "MAP":
		// already checked by the parser
		mapID, _ := strconv.Atoi(cmd.Args[0])
		if err := sh.exp.SetMap(ctx, mapID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return "", usererr.Wrapf(err, "There is no map with ID %d in the catalog", mapID)
			}
			return "", err
		}
		return "You are now in " + sh.exp.Location().CurrentMap().Name, nil
	case "POS":
		var coords [3]float64
		for i := range coords {
			coords[i], _ = strconv.ParseFloat(cmd.Args[i], 64)
		}
		if sh.exp.Location().CurrentMap() == nil {
			return "", usererr.Newf("Pick a map with %smap first", command.DirectivePrefix)
		}
		sh.exp.UpdatePosition(location.Position{X: coords[0], Y: coords[1], Z: coords[2]})
		return sh.describeLocation(), nil
	case "WHERE":
		return sh.describeLocation(), nil
	case "MAPS":
		return sh.listMaps(ctx)
	case "KEYS":
		var sb strings.Builder
		for i, kw := range sh.exp.Keywords() {
			if i > 0 {
				sb.WriteRune('\n')
			}
			sb.WriteString(sh.exp.Usage(kw))
		}
		return sb.String(), nil
	case "HELP":
		topic := ""
		if len(cmd.Args) > 0 {
			topic = strings.ToLower(cmd.Args[0])
		}
		if text, ok := helpTopics[topic]; ok {
			return text, nil
		}
		if usage := sh.exp.Usage(topic); usage != "" {
			return "Macro command " + usage, nil
		}
		return "", usererr.Newf("There is no help on %q", cmd.Args[0])
	default:
		return "", fmt.Errorf("unknown verb %q", cmd.Verb)
	}
}

func (sh *Shell) describeLocation() string {
	loc := sh.exp.Location()

	m := loc.CurrentMap()
	if m == nil {
		return "You are not on any map"
	}

	desc := fmt.Sprintf("You are in %s (map %d)", m.Name, m.ID)
	if wp := loc.ClosestWaypoint(); wp != nil {
		desc += fmt.Sprintf("\nClosest waypoint: %s %s", wp.Name, wp.ChatLink)
	}
	if poi := loc.ClosestPoi(); poi != nil {
		desc += fmt.Sprintf("\nClosest point of interest: %s %s", poi.Name, poi.ChatLink)
	}
	return desc
}

func (sh *Shell) listMaps(ctx context.Context) (string, error) {
	maps, err := sh.exp.Maps(ctx)
	if err != nil {
		return "", fmt.Errorf("list maps: %w", err)
	}
	if len(maps) == 0 {
		return "The catalog has no maps", nil
	}

	lines := make([]string, len(maps))
	for i := range maps {
		lines[i] = fmt.Sprintf("%5d  %s", maps[i].ID, maps[i].Name)
	}
	return strings.Join(lines, "\n"), nil
}

// wrapLines wraps each line of s that is wider than the console on its own.
func wrapLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if len([]rune(lines[i])) > consoleOutputWidth {
			lines[i] = rosed.Edit(lines[i]).Wrap(consoleOutputWidth).String()
		}
	}
	return strings.Join(lines, "\n")
}

func (sh *Shell) write(s string) error {
	if _, err := sh.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := sh.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
