package console

import (
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/indigo-web/minihttp/logging"
	"github.com/rs/zerolog"
)

type colorSink struct {
	mu     sync.Mutex
	out    io.Writer
	debug  bool
	colors map[zerolog.Level]*color.Color
}

// NewSink prints each line to out, colored by its level. Debug lines are printed only if
// debug is set.
func NewSink(out io.Writer, debug bool) logging.Sink {
	return &colorSink{
		out:   out,
		debug: debug,
		colors: map[zerolog.Level]*color.Color{
			zerolog.DebugLevel: color.New(color.FgHiBlack),
			zerolog.InfoLevel:  color.New(color.FgGreen),
			zerolog.WarnLevel:  color.New(color.FgYellow),
			zerolog.ErrorLevel: color.New(color.FgRed, color.Bold),
		},
	}
}

func (c *colorSink) Log(level zerolog.Level, line string) {
	if level == zerolog.DebugLevel && !c.debug {
		return
	}

	// lines from connection handlers may arrive concurrently
	c.mu.Lock()
	defer c.mu.Unlock()

	if paint, ok := c.colors[level]; ok {
		_, _ = paint.Fprintln(c.out, line)
		return
	}

	_, _ = io.WriteString(c.out, line+"\n")
}
