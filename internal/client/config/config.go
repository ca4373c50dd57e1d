package config

import "time"

// Config holds runtime options of the CLI process.
type Config struct {
	DataDir       string
	LogLevel      string
	LogFormat     string
	WatchDebounce time.Duration
}

// LoadDefaults populates c with defaults. An empty DataDir lets the path
// resolver pick the per-user directory.
func (c *Config) LoadDefaults() {
	c.DataDir = ""
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.WatchDebounce = 200 * time.Millisecond
}

// LoadConfig builds a Config from defaults, the JSON file, the environment
// and args (usually os.Args[1:]), in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
