package status

// HTTPError is an error that maps directly onto a response code.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	// ErrMalformedRequest means the request line has no method/path pair. It never reaches
	// the client: the connection is closed without writing anything.
	ErrMalformedRequest = NewError(BadRequest, "malformed request line")

	ErrMissingBody         = NewError(BadRequest, "request body separator is missing")
	ErrNotFound            = NewError(NotFound, "not found")
	ErrMethodNotAllowed    = NewError(MethodNotAllowed, "method not allowed")
	ErrInternalServerError = NewError(InternalServerError, "internal server error")
)
