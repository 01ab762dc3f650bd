package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/fatih/color"
	"github.com/indigo-web/minihttp"
	"github.com/indigo-web/minihttp/store"
)

// Server is what the console controls.
type Server interface {
	Start() error
	Stop()
	State() minihttp.State
	Addr() net.Addr
	Store() *store.File
}

const help = `Commands:
  start    start the server
  stop     stop the server
  status   show whether the server is running
  records  list the saved records
  quit     stop the server and exit`

// Console reads commands line by line and drives the server accordingly.
type Console struct {
	server Server
	in     io.Reader
	out    io.Writer
	prompt *color.Color
}

func New(server Server, in io.Reader, out io.Writer) *Console {
	return &Console{
		server: server,
		in:     in,
		out:    out,
		prompt: color.New(color.FgCyan),
	}
}

// Run processes commands until quit, the end of input or the context cancellation. In
// all those cases the server is stopped if running.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		errs <- scanner.Err()
		close(lines)
	}()

	fmt.Fprintln(c.out, help)

	for {
		c.prompt.Fprint(c.out, "> ")

		select {
		case <-ctx.Done():
			c.shutdown()
			return nil
		case line, ok := <-lines:
			if !ok {
				c.shutdown()
				return <-errs
			}

			if !c.exec(strings.TrimSpace(line)) {
				c.shutdown()
				return nil
			}
		}
	}
}

// exec runs a single command and reports whether the console should go on.
func (c *Console) exec(command string) bool {
	switch strings.ToLower(command) {
	case "":
	case "start":
		// failures are reported through the sink already
		_ = c.server.Start()
	case "stop":
		c.server.Stop()
	case "status":
		c.status()
	case "records":
		c.records()
	case "help", "?":
		fmt.Fprintln(c.out, help)
	case "quit", "exit":
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n", command)
	}

	return true
}

func (c *Console) status() {
	state := c.server.State()
	if state == minihttp.Running {
		fmt.Fprintf(c.out, "Server is %s on %s\n", state, c.server.Addr())
		return
	}

	fmt.Fprintf(c.out, "Server is %s\n", state)
}

func (c *Console) records() {
	records, err := c.server.Store().Lines()
	if err != nil {
		fmt.Fprintf(c.out, "Error reading records: %v\n", err)
		return
	}

	if len(records) == 0 {
		fmt.Fprintln(c.out, "No records saved yet.")
		return
	}

	for i, record := range records {
		fmt.Fprintf(c.out, "%4d  %s\n", i+1, record)
	}
}

// shutdown mirrors closing the window: a running server is stopped first.
func (c *Console) shutdown() {
	if c.server.State() == minihttp.Running {
		c.server.Stop()
	}
}
