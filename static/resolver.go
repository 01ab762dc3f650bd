package static

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/logging"
	json "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

// Resolver serves files from the root directory verbatim. The file is read anew on
// every request, so edits are picked up immediately.
type Resolver struct {
	root string
	sink logging.Sink

	mu sync.Mutex
	// invalid holds the hash of the content last reported as broken JSON, per file
	invalid map[string]uint64
}

func NewResolver(root string, sink logging.Sink) *Resolver {
	if sink == nil {
		sink = logging.Discard
	}

	return &Resolver{
		root:    root,
		sink:    sink,
		invalid: make(map[string]uint64),
	}
}

// Path returns where the named resource is looked up.
func (r *Resolver) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(r.root, name)
}

// Resolve returns 200 with the file content as body and the given content type. A file
// which doesn't exist or can't be read for whatever reason results in 404.
func (r *Resolver) Resolve(name string, contentType mime.MIME) *http.Response {
	path := r.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return http.ErrorFrom(status.ErrNotFound)
	}

	content := string(data)
	if contentType == mime.JSON {
		r.checkJSON(path, content)
	}

	return http.NewResponse().
		ContentType(contentType).
		String(content)
}

// checkJSON reports a resource served as JSON that isn't one. It's reported once per
// distinct content; the file is served regardless.
func (r *Resolver) checkJSON(path, content string) {
	if json.Valid([]byte(content)) {
		r.mu.Lock()
		delete(r.invalid, path)
		r.mu.Unlock()
		return
	}

	sum := xxhash.Sum64String(content)

	r.mu.Lock()
	last, reported := r.invalid[path]
	r.invalid[path] = sum
	r.mu.Unlock()

	if !reported || last != sum {
		r.sink.Log(zerolog.WarnLevel, fmt.Sprintf("Resource %s is not valid JSON.", path))
	}
}
