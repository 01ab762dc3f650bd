//go:build !linux

package transport

import "net"

// the backlog is left to the platform here, as is SO_REUSEADDR, which Go sets on unix anyway
func listen(addr string, _ int) (net.Listener, error) {
	return net.Listen("tcp", addr)
}
