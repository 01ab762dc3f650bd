package http

import (
	"errors"
	"fmt"

	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/kv"
)

// preallocRespHeaders covers Content-Type and Allow, which is all the server ever sets.
const preallocRespHeaders = 2

// Fields are the values the builder was filled with.
type Fields struct {
	Code    status.Code
	Status  status.Status
	Headers *kv.Storage
	Body    string
}

type Response struct {
	fields Fields
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK,
// no headers and an empty body.
func NewResponse() *Response {
	return &Response{
		Fields{
			Code:    status.OK,
			Headers: kv.NewPrealloc(preallocRespHeaders),
		},
	}
}

// Code sets a Response code. Unless Status is called explicitly, the reason phrase
// is derived from the code.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// Status sets a custom reason phrase.
func (r *Response) Status(status status.Status) *Response {
	r.fields.Status = status
	return r
}

// ContentType sets the Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.Headers.Set("Content-Type", value)
	return r
}

// Header appends a header. Headers are rendered in the order they were added.
func (r *Response) Header(key, value string) *Response {
	r.fields.Headers.Add(key, value)
	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	r.fields.Body = body
	return r
}

// Error turns the response into an error page. An instance of status.HTTPError defines the
// code, anything else results in 500 Internal Server Error. If passed err is nil, nothing
// happens.
func (r *Response) Error(err error, allow ...string) *Response {
	if err == nil {
		return r
	}

	code := status.InternalServerError
	var httpErr status.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}

	r.Code(code).
		ContentType(mime.HTML).
		String(fmt.Sprintf("<h1>%d %s</h1>", code, status.Text(code)))

	if len(allow) > 0 {
		r.Header("Allow", allow[0])
	}

	return r
}

// Reveal returns the values the builder was filled with. The reason phrase is resolved
// if none was set explicitly.
func (r *Response) Reveal() Fields {
	fields := r.fields
	if len(fields.Status) == 0 {
		fields.Status = status.Text(fields.Code)
	}

	return fields
}

// Error builds an error page wrapping the message into a heading. If allow is passed,
// it is set as the Allow header value.
func Error(code status.Code, message string, allow ...string) *Response {
	resp := NewResponse().
		Code(code).
		ContentType(mime.HTML).
		String("<h1>" + message + "</h1>")

	if len(allow) > 0 {
		resp.Header("Allow", allow[0])
	}

	return resp
}

// ErrorFrom does the same as Response.Error on a fresh response.
func ErrorFrom(err error, allow ...string) *Response {
	return NewResponse().Error(err, allow...)
}
