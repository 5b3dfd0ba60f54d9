package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kottz/ekman/internal/model"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"

	FileName = "config.toml"
)

// Duration decodes TOML strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type LogConfig struct {
	Level    string `toml:"level"`
	File     string `toml:"file"`
	ToStderr bool   `toml:"to_stderr"`
	JSON     bool   `toml:"json"`
}

type Config struct {
	Backend        string    `toml:"backend"`
	ServerURL      string    `toml:"server_url"`
	Database       string    `toml:"database"`
	Keybindings    string    `toml:"keybindings"`
	WeightStep     float64   `toml:"weight_step"`
	GraphMetric    string    `toml:"graph_metric"`
	GraphPoints    int       `toml:"graph_points"`
	ActivityDays   int       `toml:"activity_days"`
	RequestTimeout Duration  `toml:"request_timeout"`
	Log            LogConfig `toml:"log"`
}

// Dir is the per-user config directory. EKMAN_CONFIG_DIR overrides it so
// tests never touch the real one.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("EKMAN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); v != "" {
		return filepath.Join(v, "ekman"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ekman"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		Backend:        BackendLocal,
		ServerURL:      "http://localhost:3000",
		Database:       filepath.Join(dir, "ekman.db"),
		Keybindings:    filepath.Join(dir, "binds.conf"),
		WeightStep:     2.5,
		GraphMetric:    model.MetricMaxWeight.String(),
		GraphPoints:    50,
		ActivityDays:   21,
		RequestTimeout: Duration{10 * time.Second},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "ekman.log"),
		},
	}
}

// LoadFromFile decodes one TOML file. Unset keys stay zero.
func LoadFromFile(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &c, nil
}

// Load layers defaults, the config file (when present) and environment
// overrides. An empty path means the default location.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	fileCfg, err := LoadFromFile(path)
	switch {
	case err == nil:
		c.Merge(fileCfg)
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.ApplyEnv()
	return c, nil
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("EKMAN_BACKEND")); v != "" {
		c.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("EKMAN_SERVER_URL")); v != "" {
		c.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("EKMAN_DB")); v != "" {
		c.Database = v
	}
}

// Merge copies every non-zero value of other over c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Backend != "" {
		c.Backend = other.Backend
	}
	if other.ServerURL != "" {
		c.ServerURL = other.ServerURL
	}
	if other.Database != "" {
		c.Database = other.Database
	}
	if other.Keybindings != "" {
		c.Keybindings = other.Keybindings
	}
	if other.WeightStep != 0 {
		c.WeightStep = other.WeightStep
	}
	if other.GraphMetric != "" {
		c.GraphMetric = other.GraphMetric
	}
	if other.GraphPoints != 0 {
		c.GraphPoints = other.GraphPoints
	}
	if other.ActivityDays != 0 {
		c.ActivityDays = other.ActivityDays
	}
	if other.RequestTimeout.Duration != 0 {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}
	if other.Log.ToStderr {
		c.Log.ToStderr = true
	}
	if other.Log.JSON {
		c.Log.JSON = true
	}
}

func (c *Config) Validate() error {
	var problems []string
	switch c.Backend {
	case BackendLocal:
		if strings.TrimSpace(c.Database) == "" {
			problems = append(problems, "database path is required for the local backend")
		}
	case BackendRemote:
		u, err := url.Parse(c.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("server_url %q is not an absolute URL", c.ServerURL))
		}
	default:
		problems = append(problems, fmt.Sprintf("backend must be %q or %q, got %q", BackendLocal, BackendRemote, c.Backend))
	}
	if c.WeightStep <= 0 {
		problems = append(problems, "weight_step must be positive")
	}
	if c.GraphPoints <= 0 {
		problems = append(problems, "graph_points must be positive")
	}
	if c.ActivityDays <= 0 {
		problems = append(problems, "activity_days must be positive")
	}
	if c.RequestTimeout.Duration <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if _, err := model.ParseMetric(c.GraphMetric); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) Metric() model.Metric {
	m, err := model.ParseMetric(c.GraphMetric)
	if err != nil {
		return model.MetricMaxWeight
	}
	return m
}

func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	return AtomicWriteFile(path, buf.Bytes(), 0o600)
}
