package http

import (
	"strings"

	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/status"
)

// BodySeparator splits the request head from its body.
const BodySeparator = "\r\n\r\n"

// Request represents the part of an HTTP request the server cares about: the first line's
// method and path tokens and, optionally, everything past the head.
type Request struct {
	// Method is an enum of the request method. Tokens not matching a known method exactly
	// (including case) are method.Unknown.
	Method method.Method
	// MethodToken is the method exactly as it was received.
	MethodToken string
	// Path is the second token of the request line. Neither query nor fragment is split
	// off, so a path carrying one of them never matches a route.
	Path string
	// Body holds everything after the first BodySeparator. Empty if HasBody is false.
	Body string
	// HasBody reports whether the BodySeparator was present at all.
	HasBody bool
	// Raw is the request text as it was read.
	Raw string
}

// Parse extracts the request from raw text. Lines between the request line and the body
// separator are not inspected. status.ErrMalformedRequest is returned if the first line
// holds fewer than two tokens.
func Parse(raw string) (*Request, error) {
	line, _, _ := strings.Cut(raw, "\n")
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return nil, status.ErrMalformedRequest
	}

	request := &Request{
		Method:      method.Parse(tokens[0]),
		MethodToken: tokens[0],
		Path:        tokens[1],
		Raw:         raw,
	}
	_, request.Body, request.HasBody = strings.Cut(raw, BodySeparator)

	return request, nil
}
