package logging

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sink receives human-readable, line-oriented messages about the server lifecycle. It's
// what the control surface displays.
type Sink interface {
	Log(level zerolog.Level, line string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(level zerolog.Level, line string)

func (f SinkFunc) Log(level zerolog.Level, line string) {
	f(level, line)
}

// Discard drops every line.
var Discard Sink = SinkFunc(func(zerolog.Level, string) {})

type zerologSink struct {
	logger zerolog.Logger
}

// NewSink forwards lines to the structured logger at their level.
func NewSink(logger zerolog.Logger) Sink {
	return zerologSink{logger: logger}
}

func (z zerologSink) Log(level zerolog.Level, line string) {
	z.logger.WithLevel(level).Msg(line)
}

type multiSink []Sink

// Multi duplicates every line into each of the sinks.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Log(level zerolog.Level, line string) {
	for _, sink := range m {
		sink.Log(level, line)
	}
}

type Entry struct {
	Level zerolog.Level
	Line  string
}

// Recorder is a Sink keeping every line in memory. It's safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return new(Recorder)
}

func (r *Recorder) Log(level zerolog.Level, line string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Line: line})
	r.mu.Unlock()
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := make([]string, len(r.entries))
	for i, entry := range r.entries {
		lines[i] = entry.Line
	}

	return lines
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Entry(nil), r.entries...)
}
