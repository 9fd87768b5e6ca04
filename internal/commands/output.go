package commands

import (
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// colorEnabled reports whether tag chips should be colored on w.
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func stdin(c *cli.Command) io.Reader {
	if r := c.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// readText returns the positional arguments joined by spaces, or all of
// stdin when there are none. An interactive stdin yields "".
func readText(c *cli.Command) (string, error) {
	if c.Args().Present() {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	r := stdin(c)
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
