package status

import "strconv"

type (
	Code   uint16
	Status string
)

// HTTP status codes the server is able to answer with. The list is deliberately short,
// as routes are fixed.
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	BadRequest          Code = 400 // RFC 9110, 15.5.1
	NotFound            Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed    Code = 405 // RFC 9110, 15.5.6
	InternalServerError Code = 500 // RFC 9110, 15.6.1
)

// KnownCodes lists every code Text knows a reason phrase for.
var KnownCodes = []Code{OK, BadRequest, NotFound, MethodNotAllowed, InternalServerError}

// Text returns a reason phrase for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case InternalServerError:
		return "Internal Server Error"
	default:
		return ""
	}
}

// StringCode returns the code as a decimal string.
func StringCode(code Code) string {
	return strconv.Itoa(int(code))
}
