package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := 0; field < a.Value.NumField(); field++ {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "minihttp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "0.0.0.0:9090", cfg.Address())
	require.Equal(t, 5, cfg.NET.Backlog)
	require.Equal(t, 1500, cfg.NET.ReadBufferSize)
	require.False(t, cfg.HTTP.CRLF)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfig(t, `
net:
  port: 8080
  read_timeout: 3s
http:
  crlf: true
store:
  path: /tmp/records.txt
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, uint16(8080), cfg.NET.Port)
		require.Equal(t, "0.0.0.0", cfg.NET.Host)
		require.Equal(t, 3*time.Second, cfg.NET.ReadTimeout)
		require.Equal(t, 1500, cfg.NET.ReadBufferSize)
		require.True(t, cfg.HTTP.CRLF)
		require.Equal(t, "/tmp/records.txt", cfg.Store.Path)
		require.Equal(t, "index.html", cfg.Resources.Index)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "net: [unterminated"))
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "net:\n  backlog: 0\n"))
		require.ErrorContains(t, err, "backlog")

		_, err = Load(writeConfig(t, "net:\n  read_buffer_size: -1\n"))
		require.ErrorContains(t, err, "read_buffer_size")
	})
}
