package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

var knownFlags = []string{
	"-d", "-data-dir", "--data-dir",
	"-l", "-log-level", "--log-level",
	"-f", "-log-format", "--log-format",
	"-w", "-watch-debounce", "--watch-debounce",
}

// parseFlags overlays cfg with the flags it knows about; everything else in
// args is left for the command parser.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("passvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "application directory")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "application directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")

	debounce := int(cfg.WatchDebounce.Milliseconds())
	fs.IntVar(&debounce, "w", debounce, "watch debounce (ms)")
	fs.IntVar(&debounce, "watch-debounce", debounce, "watch debounce (ms)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	cfg.WatchDebounce = time.Duration(debounce) * time.Millisecond
	return nil
}
