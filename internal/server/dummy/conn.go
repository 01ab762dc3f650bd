package dummy

import (
	"io"
	"net"
	"sync"
	"time"
)

// Conn is a net.Conn for tests. Every Read call pops the next chunk. Once exhausted, reads
// return ReadErr or io.EOF if it isn't set. Writes are accumulated and closes counted.
type Conn struct {
	mu       sync.Mutex
	chunks   [][]byte
	written  []byte
	closes   int
	ReadErr  error
	WriteErr error
	// ReadHook, if set, is called at the beginning of each Read.
	ReadHook func()
}

func NewConn(chunks ...[]byte) *Conn {
	return &Conn{chunks: chunks}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.ReadHook != nil {
		c.ReadHook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.chunks) == 0 {
		if c.ReadErr != nil {
			return 0, c.ReadErr
		}

		return 0, io.EOF
	}

	n = copy(b, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.WriteErr != nil {
		return 0, c.WriteErr
	}

	c.written = append(c.written, b...)
	return len(b), nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	return nil
}

// Written returns everything written so far.
func (c *Conn) Written() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.written)
}

// Closes returns how many times Close was called.
func (c *Conn) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

func (*Conn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9090}
}

func (*Conn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321}
}

func (*Conn) SetDeadline(time.Time) error {
	return nil
}

func (*Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (*Conn) SetWriteDeadline(time.Time) error {
	return nil
}
