package static

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/logging"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestResolver(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "index.html", "<html><body>hi\r\n</body></html>")

		fields := NewResolver(dir, nil).Resolve("index.html", mime.HTML).Reveal()
		require.Equal(t, status.OK, fields.Code)
		require.Equal(t, mime.HTML, fields.Headers.Value("Content-Type"))
		require.Equal(t, 1, fields.Headers.Len())
		require.Equal(t, "<html><body>hi\r\n</body></html>", fields.Body)
	})

	t.Run("missing file", func(t *testing.T) {
		fields := NewResolver(t.TempDir(), nil).Resolve("book.json", mime.JSON).Reveal()
		require.Equal(t, status.NotFound, fields.Code)
		require.False(t, fields.Headers.Has("Allow"))
		require.Equal(t, http.ErrorFrom(status.ErrNotFound).Reveal(), fields)
	})

	t.Run("directory degrades to not found", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "book.json"), 0755))

		fields := NewResolver(dir, nil).Resolve("book.json", mime.JSON).Reveal()
		require.Equal(t, status.NotFound, fields.Code)
	})

	t.Run("unreadable file degrades to not found", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permissions are not enforced for root")
		}

		dir := t.TempDir()
		writeFile(t, dir, "index.html", "secret")
		require.NoError(t, os.Chmod(filepath.Join(dir, "index.html"), 0))

		fields := NewResolver(dir, nil).Resolve("index.html", mime.HTML).Reveal()
		require.Equal(t, status.NotFound, fields.Code)
	})

	t.Run("absolute name", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "book.json", `{"title":"Go"}`)

		resolver := NewResolver("/nonexistent", nil)
		require.Equal(t, filepath.Join(dir, "book.json"), resolver.Path(filepath.Join(dir, "book.json")))
		fields := resolver.Resolve(filepath.Join(dir, "book.json"), mime.JSON).Reveal()
		require.Equal(t, `{"title":"Go"}`, fields.Body)
	})
}

func TestResolverJSONCheck(t *testing.T) {
	dir := t.TempDir()
	rec := logging.NewRecorder()
	resolver := NewResolver(dir, rec)

	writeFile(t, dir, "book.json", `{"title": "Go"}`)
	resolver.Resolve("book.json", mime.JSON)
	require.Empty(t, rec.Lines())

	writeFile(t, dir, "book.json", `{"title": `)
	fields := resolver.Resolve("book.json", mime.JSON).Reveal()
	require.Equal(t, status.OK, fields.Code, "broken JSON must still be served")
	require.Equal(t, `{"title": `, fields.Body)
	require.Len(t, rec.Lines(), 1)
	require.Contains(t, rec.Lines()[0], "is not valid JSON")

	resolver.Resolve("book.json", mime.JSON)
	require.Len(t, rec.Lines(), 1, "same content is reported only once")

	writeFile(t, dir, "book.json", `[1, 2,`)
	resolver.Resolve("book.json", mime.JSON)
	require.Len(t, rec.Lines(), 2)

	writeFile(t, dir, "index.html", `{"not": json`)
	resolver.Resolve("index.html", mime.HTML)
	require.Len(t, rec.Lines(), 2, "only JSON resources are checked")
}
