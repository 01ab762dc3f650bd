package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	NET struct {
		// Host is the interface to bind to. Empty or 0.0.0.0 means all of them.
		Host string `yaml:"host"`
		// Port to listen on. 0 lets the kernel pick one, which is mostly useful in tests.
		Port uint16 `yaml:"port" test:"nullable"`
		// Backlog is the length of the pending connections queue.
		Backlog int `yaml:"backlog"`
		// ReadBufferSize limits the request: exactly one read of at most this many bytes
		// is done per connection.
		ReadBufferSize int `yaml:"read_buffer_size"`
		// ReadTimeout bounds the single read. Zero disables it, leaving a silent client
		// holding its connection forever.
		ReadTimeout time.Duration `yaml:"read_timeout" test:"nullable"`
	}

	HTTP struct {
		// CRLF switches response line terminators from bare LF to CRLF.
		CRLF bool `yaml:"crlf" test:"nullable"`
	}

	Resources struct {
		// Root is the directory static resources are looked up in.
		Root string `yaml:"root"`
		// Index is served on GET / as text/html.
		Index string `yaml:"index"`
		// Book is served on GET /book as application/json.
		Book string `yaml:"book"`
	}

	Store struct {
		// Path of the append-only file POST /save writes to.
		Path string `yaml:"path"`
	}

	Logging struct {
		Debug bool `yaml:"debug" test:"nullable"`
		// File enables a rotating log file. Rotation applies to the log only, never to the store.
		File       string `yaml:"file" test:"nullable"`
		MaxSize    int    `yaml:"max_size"` // megabytes
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"` // days
		Compress   bool   `yaml:"compress"`
	}

	Metrics struct {
		// Addr enables a separate Prometheus listener, e.g. "127.0.0.1:9091".
		Addr string `yaml:"addr" test:"nullable"`
	}
)

// Config holds everything the server and its control surface need.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually.
type Config struct {
	NET       NET       `yaml:"net"`
	HTTP      HTTP      `yaml:"http"`
	Resources Resources `yaml:"resources"`
	Store     Store     `yaml:"store"`
	Logging   Logging   `yaml:"logging"`
	Metrics   Metrics   `yaml:"metrics"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			Host:           "0.0.0.0",
			Port:           9090,
			Backlog:        5,
			ReadBufferSize: 1500,
		},
		Resources: Resources{
			Root:  ".",
			Index: "index.html",
			Book:  "book.json",
		},
		Store: Store{
			Path: "data.txt",
		},
		Logging: Logging{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		},
	}
}

// Address returns host:port to bind to.
func (c *Config) Address() string {
	return net.JoinHostPort(c.NET.Host, strconv.Itoa(int(c.NET.Port)))
}

// Validate reports settings the server can't run with.
func (c *Config) Validate() error {
	switch {
	case c.NET.Backlog <= 0:
		return fmt.Errorf("net.backlog must be positive, got %d", c.NET.Backlog)
	case c.NET.ReadBufferSize <= 0:
		return fmt.Errorf("net.read_buffer_size must be positive, got %d", c.NET.ReadBufferSize)
	case c.NET.ReadTimeout < 0:
		return fmt.Errorf("net.read_timeout must not be negative, got %s", c.NET.ReadTimeout)
	case len(c.Store.Path) == 0:
		return errors.New("store.path must not be empty")
	}

	return nil
}

// Load reads a YAML file on top of the defaults. Settings missing in the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}
