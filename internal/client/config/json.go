package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/passvault/internal/flagx"
	"github.com/dmitrijs2005/passvault/internal/timex"
	"github.com/tidwall/jsonc"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DataDir       string         `json:"data_dir"`
	LogLevel      string         `json:"log_level"`
	LogFormat     string         `json:"log_format"`
	WatchDebounce timex.Duration `json:"watch_debounce"`
}

// parseJson overlays cfg with the file named by -c/--config. Keys absent
// from the file leave cfg unchanged.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.WatchDebounce.Duration > 0 {
		cfg.WatchDebounce = jc.WatchDebounce.Duration
	}
	return nil
}
