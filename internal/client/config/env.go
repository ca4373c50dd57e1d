package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PASSVAULT"

// parseEnv overlays cfg with PASSVAULT_* variables.
func parseEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if s := v.GetString("data_dir"); s != "" {
		cfg.DataDir = s
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("log_format"); s != "" {
		cfg.LogFormat = s
	}
	if s := v.GetString("watch_debounce"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%s_WATCH_DEBOUNCE: %w", envPrefix, err)
		}
		cfg.WatchDebounce = d
	}
	return nil
}
