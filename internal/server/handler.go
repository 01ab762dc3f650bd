package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"
	"unicode/utf8"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/metrics"
	"github.com/indigo-web/minihttp/internal/protocol/http1"
	"github.com/indigo-web/minihttp/logging"
	"github.com/indigo-web/utils/uf"
	"github.com/rs/zerolog"
)

// Outcome tells how a connection ended.
type Outcome uint8

const (
	// Responded means a response was written.
	Responded Outcome = iota + 1
	// Dropped means the request was malformed and the connection was closed silently.
	Dropped
	// Failed means an error occurred. It was logged and the connection closed.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Responded:
		return "responded"
	case Dropped:
		return "dropped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var ErrNotUTF8 = errors.New("request is not valid UTF-8")

type Router interface {
	Route(raw string) (*http.Response, error)
}

// Handler serves exactly one request per connection: a single read, routing, a single
// write. The connection is closed afterward no matter what.
type Handler struct {
	cfg     *config.Config
	router  Router
	sink    logging.Sink
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewHandler(
	cfg *config.Config, router Router, sink logging.Sink, logger zerolog.Logger, m *metrics.Metrics,
) *Handler {
	if sink == nil {
		sink = logging.Discard
	}

	return &Handler{
		cfg:     cfg,
		router:  router,
		sink:    sink,
		logger:  logger,
		metrics: m,
	}
}

// Serve handles the connection and closes it. Errors and panics don't escape: they are
// reported to the sink and result in Failed.
func (h *Handler) Serve(conn net.Conn) (outcome Outcome) {
	logger := h.logger.With().
		Str("conn", uniuri.NewLen(8)).
		Stringer("remote", conn.RemoteAddr()).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			outcome = h.fail(logger, fmt.Errorf("panic: %v", r))
		}

		_ = conn.Close()
		h.metrics.Outcome(outcome.String())
		logger.Debug().Stringer("outcome", outcome).Msg("connection closed")
	}()

	outcome, err := h.serve(conn, logger)
	if err != nil {
		return h.fail(logger, err)
	}

	return outcome
}

func (h *Handler) serve(conn net.Conn, logger zerolog.Logger) (Outcome, error) {
	if timeout := h.cfg.NET.ReadTimeout; timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return Failed, fmt.Errorf("set read deadline: %w", err)
		}
	}

	buff := make([]byte, h.cfg.NET.ReadBufferSize)
	n, err := conn.Read(buff)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			// the peer went away without sending anything, which is just an empty request
			return Dropped, nil
		}

		return Failed, fmt.Errorf("read: %w", err)
	}

	data := buff[:n]
	if !utf8.Valid(data) {
		return Failed, ErrNotUTF8
	}

	// buff is owned by this call only, so it's safe to not copy it
	raw := uf.B2S(data)
	h.sink.Log(zerolog.DebugLevel, "Received request:\n"+raw)

	response, err := h.router.Route(raw)
	if err != nil {
		if errors.Is(err, status.ErrMalformedRequest) {
			logger.Debug().Msg("malformed request line, dropping the connection")
			return Dropped, nil
		}

		return Failed, err
	}

	serializer := http1.NewSerializer(h.cfg.HTTP.CRLF, nil)
	if _, err = conn.Write(serializer.Serialize(response)); err != nil {
		return Failed, fmt.Errorf("write: %w", err)
	}

	return Responded, nil
}

func (h *Handler) fail(logger zerolog.Logger, err error) Outcome {
	logger.Error().Err(err).Msg("error handling request")
	h.sink.Log(zerolog.ErrorLevel, fmt.Sprintf("Error handling request: %v", err))

	return Failed
}
