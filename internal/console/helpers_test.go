package console

import (
	"path/filepath"

	"github.com/indigo-web/minihttp/config"
)

func appConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.NET.Host = "127.0.0.1"
	cfg.NET.Port = 0
	cfg.Resources.Root = dir
	cfg.Store.Path = filepath.Join(dir, "data.txt")
	return cfg
}
