package console

import (
	"bytes"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/indigo-web/minihttp"
	"github.com/indigo-web/minihttp/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type fakeServer struct {
	state minihttp.State
	store *store.File
	calls []string
}

func (f *fakeServer) Start() error {
	f.calls = append(f.calls, "start")
	f.state = minihttp.Running
	return nil
}

func (f *fakeServer) Stop() {
	f.calls = append(f.calls, "stop")
	f.state = minihttp.Stopped
}

func (f *fakeServer) State() minihttp.State {
	return f.state
}

func (f *fakeServer) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9090}
}

func (f *fakeServer) Store() *store.File {
	return f.store
}

func newFakeServer(t *testing.T) *fakeServer {
	return &fakeServer{store: store.NewFile(filepath.Join(t.TempDir(), "data.txt"))}
}

func run(t *testing.T, server Server, input string) string {
	var out bytes.Buffer
	c := New(server, strings.NewReader(input), &out)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestConsole(t *testing.T) {
	t.Run("start and stop", func(t *testing.T) {
		server := newFakeServer(t)
		run(t, server, "start\nstop\nquit\n")
		require.Equal(t, []string{"start", "stop"}, server.calls)
	})

	t.Run("quit stops a running server", func(t *testing.T) {
		server := newFakeServer(t)
		run(t, server, "start\nquit\nstart\n")
		require.Equal(t, []string{"start", "stop"}, server.calls)
		require.Equal(t, minihttp.Stopped, server.state)
	})

	t.Run("end of input stops a running server", func(t *testing.T) {
		server := newFakeServer(t)
		run(t, server, "  START  \n")
		require.Equal(t, []string{"start", "stop"}, server.calls)
	})

	t.Run("status", func(t *testing.T) {
		server := newFakeServer(t)
		out := run(t, server, "status\nstart\nstatus\n")
		require.Contains(t, out, "Server is stopped\n")
		require.Contains(t, out, "Server is running on 127.0.0.1:9090\n")
	})

	t.Run("records", func(t *testing.T) {
		server := newFakeServer(t)
		out := run(t, server, "records\n")
		require.Contains(t, out, "No records saved yet.\n")

		require.NoError(t, server.store.Append("hello world"))
		require.NoError(t, server.store.Append("second"))
		out = run(t, server, "records\n")
		require.Contains(t, out, "   1  hello world\n")
		require.Contains(t, out, "   2  second\n")
	})

	t.Run("unknown command", func(t *testing.T) {
		out := run(t, newFakeServer(t), "\nfrobnicate\n")
		require.Contains(t, out, "Unknown command: frobnicate\n")
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := newFakeServer(t)
		server.state = minihttp.Running
		reader, writer := io.Pipe()
		defer writer.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- New(server, reader, io.Discard).Run(ctx)
		}()

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			require.FailNow(t, "console didn't exit")
		}
		require.Equal(t, []string{"stop"}, server.calls)
	})
}

func TestSink(t *testing.T) {
	var out bytes.Buffer
	sink := NewSink(&out, false)
	sink.Log(zerolog.InfoLevel, "Server started on port 9090...")
	sink.Log(zerolog.DebugLevel, "Received request:\nGET / HTTP/1.1")
	sink.Log(zerolog.ErrorLevel, "Error handling request: broken pipe")
	require.Equal(t, "Server started on port 9090...\nError handling request: broken pipe\n", out.String())

	out.Reset()
	NewSink(&out, true).Log(zerolog.DebugLevel, "Received request:\nx")
	require.Equal(t, "Received request:\nx\n", out.String())
}

func TestWithApp(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	cfg := appConfig(dir)
	app := minihttp.New(cfg, NewSink(&out, false), zerolog.Nop(), nil)

	reader, writer := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- New(app, reader, &out).Run(context.Background())
	}()

	_, err := io.WriteString(writer, "start\nstart\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return app.State() == minihttp.Running
	}, 5*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(writer, "quit\n")
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.NoError(t, writer.Close())

	require.Equal(t, minihttp.Stopped, app.State())
	require.Contains(t, out.String(), "Server is already running.\n")
	require.Contains(t, out.String(), "Server stopped.\n")
}
