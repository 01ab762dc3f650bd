package http1

import (
	"strconv"

	"github.com/indigo-web/minihttp/http"
)

const protocol = "HTTP/1.1 "

// Serializer renders responses into their wire form. The line terminator is a bare LF
// unless strict mode is enabled, in which case CRLF is used.
type Serializer struct {
	eol  string
	buff []byte
}

func NewSerializer(crlf bool, buff []byte) *Serializer {
	eol := "\n"
	if crlf {
		eol = "\r\n"
	}

	return &Serializer{
		eol:  eol,
		buff: buff[:0],
	}
}

// Serialize renders the status line, headers in their insertion order, an empty line and
// the body. The returned slice is valid until the next call.
func (s *Serializer) Serialize(response *http.Response) []byte {
	fields := response.Reveal()

	s.buff = append(s.buff[:0], protocol...)
	s.buff = strconv.AppendUint(s.buff, uint64(fields.Code), 10)
	if len(fields.Status) > 0 {
		s.buff = append(s.buff, ' ')
		s.buff = append(s.buff, fields.Status...)
	}
	s.buff = append(s.buff, s.eol...)

	for key, value := range fields.Headers.Pairs() {
		s.buff = append(s.buff, key...)
		s.buff = append(s.buff, ':', ' ')
		s.buff = append(s.buff, value...)
		s.buff = append(s.buff, s.eol...)
	}

	s.buff = append(s.buff, s.eol...)
	s.buff = append(s.buff, fields.Body...)

	return s.buff
}
