package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/mmv/pkg/errors"
)

// TTY is where the console reads replies by default
const TTY = "/dev/tty"

// Console asks questions on the error output and reads the replies from
// the terminal, so that patterns can still come from standard input
type Console struct {
	out  io.Writer
	path string
	in   *bufio.Reader
	// failed is set once the reply source could not be opened
	failed bool
}

// NewConsole creates a console reading replies from TTY
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, path: TTY}
}

// NewConsoleFrom creates a console reading replies from in
func NewConsoleFrom(in io.Reader, out io.Writer) *Console {
	return &Console{out: out, in: bufio.NewReader(in)}
}

// YesNo prints prompt and waits for a reply starting with y or n.
// Anything else asks again.
func (c *Console) YesNo(prompt string) (bool, error) {
	_, _ = fmt.Fprint(c.out, prompt)
	for {
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		if line != "" {
			switch strings.ToLower(line[:1]) {
			case "y":
				return true, nil
			case "n":
				return false, nil
			}
		}
		_, _ = fmt.Fprint(c.out, "Yes or No? ")
	}
}

// Ask prints prompt and returns the reply line
func (c *Console) Ask(prompt string) (string, error) {
	_, _ = fmt.Fprint(c.out, prompt)
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	if err := c.open(); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		_, _ = fmt.Fprintln(c.out, "Can not get reply.")
		return "", errors.Wrap(err, errors.ErrCancelled, "can not get reply")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) open() error {
	if c.in != nil {
		return nil
	}
	if !c.failed {
		f, err := os.Open(c.path)
		if err == nil {
			c.in = bufio.NewReader(f)
			return nil
		}
		c.failed = true
	}
	_, _ = fmt.Fprintf(c.out, "Can not open %s to get reply.\n", c.path)
	return errors.Newf(errors.ErrCancelled, "can not open %s", c.path)
}
