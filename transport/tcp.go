package transport

import (
	"net"
	"sync"
	"sync/atomic"
)

// TCP owns a listening socket and runs the accept loop over it.
type TCP struct {
	l       net.Listener
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// Bind opens a listening socket on addr with SO_REUSEADDR set and the given backlog.
func Bind(addr string, backlog int) (*TCP, error) {
	l, err := listen(addr, backlog)
	if err != nil {
		return nil, err
	}

	return newTCP(l), nil
}

func newTCP(l net.Listener) *TCP {
	return &TCP{l: l}
}

func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

// Listen accepts connections until the listener fails or Stop is called, passing each of
// them to cb in its own goroutine. The number of goroutines isn't bounded. An accept error
// caused by Stop results in nil.
func (t *TCP) Listen(cb func(conn net.Conn)) error {
	for {
		conn, err := t.l.Accept()
		if err != nil {
			if t.stopped.Load() {
				return nil
			}

			return err
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			cb(conn)
		}(conn)
	}
}

// Stop marks the transport as stopped and closes the listener, which unblocks Accept.
// Connections being handled at the moment aren't touched.
func (t *TCP) Stop() error {
	if t.stopped.Swap(true) {
		return nil
	}

	return t.l.Close()
}

// Stopped reports whether Stop was called.
func (t *TCP) Stopped() bool {
	return t.stopped.Load()
}

// Wait blocks until every spawned callback returns.
func (t *TCP) Wait() {
	t.wg.Wait()
}
