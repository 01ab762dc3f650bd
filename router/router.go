package router

import (
	"fmt"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/indigo-web/minihttp/logging"
	"github.com/indigo-web/minihttp/static"
	"github.com/indigo-web/minihttp/store"
	"github.com/rs/zerolog"
)

// Allow lists the methods the server accepts at all.
const Allow = "GET, POST"

const savedMessage = "Data saved!"

// route names, used as metrics labels
const (
	routeIndex            = "index"
	routeBook             = "book"
	routeSave             = "save"
	routeNotFound         = "not_found"
	routeMethodNotAllowed = "method_not_allowed"
)

// Router dispatches requests over the fixed routing table:
//
//	GET  /      index resource, text/html
//	GET  /book  book resource, application/json
//	POST /save  append the body to the store
//
// Any other path is 404, any other method is 405.
type Router struct {
	resources config.Resources
	resolver  *static.Resolver
	store     *store.File
	sink      logging.Sink
	metrics   *metrics.Metrics
}

func New(
	resources config.Resources, resolver *static.Resolver, store *store.File,
	sink logging.Sink, m *metrics.Metrics,
) *Router {
	if sink == nil {
		sink = logging.Discard
	}

	return &Router{
		resources: resources,
		resolver:  resolver,
		store:     store,
		sink:      sink,
		metrics:   m,
	}
}

// Route parses the raw request and routes it. status.ErrMalformedRequest is returned
// if there's no method/path pair, in which case nothing must be answered.
func (r *Router) Route(raw string) (*http.Response, error) {
	request, err := http.Parse(raw)
	if err != nil {
		return nil, err
	}

	return r.OnRequest(request), nil
}

// OnRequest routes an already parsed request. It always produces a response.
func (r *Router) OnRequest(request *http.Request) *http.Response {
	route, response := r.dispatch(request)
	r.metrics.Request(route, response.Reveal().Code)

	return response
}

func (r *Router) dispatch(request *http.Request) (string, *http.Response) {
	switch request.Method {
	case method.GET:
		switch request.Path {
		case "/":
			return routeIndex, r.resolver.Resolve(r.resources.Index, mime.HTML)
		case "/book":
			return routeBook, r.resolver.Resolve(r.resources.Book, mime.JSON)
		}
	case method.POST:
		if request.Path == "/save" {
			return routeSave, r.save(request)
		}
	default:
		return routeMethodNotAllowed, http.ErrorFrom(status.ErrMethodNotAllowed, Allow)
	}

	return routeNotFound, http.ErrorFrom(status.ErrNotFound)
}

func (r *Router) save(request *http.Request) *http.Response {
	if !request.HasBody {
		return http.ErrorFrom(status.ErrMissingBody)
	}

	if err := r.store.Append(request.Body); err != nil {
		r.sink.Log(zerolog.ErrorLevel, fmt.Sprintf("Error saving data: %v", err))
		return http.ErrorFrom(status.ErrInternalServerError)
	}

	r.metrics.Saved()

	return http.NewResponse().
		ContentType(mime.Plain).
		String(savedMessage)
}
