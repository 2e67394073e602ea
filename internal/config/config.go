package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vango-lite/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "vango-lite.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It is
	// used when no JSON file exists.
	YAMLConfigFileName = "vango-lite.yaml"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultMaxPasses is the default render pass budget per request.
	DefaultMaxPasses = 25

	// DefaultMemoCacheSize is the default number of entries per memoized
	// component.
	DefaultMemoCacheSize = 256

	// DefaultLazyTimeout is how long the CLI waits for lazy components.
	DefaultLazyTimeout = "5s"

	// DefaultExportDir is the default snapshot output directory.
	DefaultExportDir = "snapshots"
)

// Config represents the complete vango-lite configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Render contains render driver settings.
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty"`

	// Hooks contains hook validation settings.
	Hooks HooksConfig `json:"hooks,omitempty" yaml:"hooks,omitempty"`

	// Memo contains memoization cache settings.
	Memo MemoConfig `json:"memo,omitempty" yaml:"memo,omitempty"`

	// Lazy contains lazy loading settings.
	Lazy LazyConfig `json:"lazy,omitempty" yaml:"lazy,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// Preview contains preview server settings.
	Preview PreviewConfig `json:"preview,omitempty" yaml:"preview,omitempty"`

	// Export contains snapshot export settings.
	Export ExportConfig `json:"export,omitempty" yaml:"export,omitempty"`

	// Trace contains tracing settings.
	Trace TraceConfig `json:"trace,omitempty" yaml:"trace,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains render driver settings.
type RenderConfig struct {
	// MaxPasses bounds the passes a single render request may chain.
	MaxPasses int `json:"maxPasses,omitempty" yaml:"maxPasses,omitempty"`
}

// HooksConfig contains hook validation settings.
type HooksConfig struct {
	// StrictOrder fails a pass on a hook order violation. When false the
	// violation is logged and the slot reset. Default: true.
	StrictOrder *bool `json:"strictOrder,omitempty" yaml:"strictOrder,omitempty"`
}

// MemoConfig contains memoization cache settings.
type MemoConfig struct {
	// CacheSize is the number of cached outputs per memoized component.
	// 0 means unbounded. Default: 256.
	CacheSize *int `json:"cacheSize,omitempty" yaml:"cacheSize,omitempty"`
}

// LazyConfig contains lazy loading settings.
type LazyConfig struct {
	// Placeholder is the text rendered while a component loads.
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	// Timeout is how long the CLI waits for lazy components (e.g. "5s").
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`
}

// ExportConfig contains snapshot export settings.
type ExportConfig struct {
	// Dir is the local snapshot directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket is the S3 bucket for uploads. Empty disables S3 export.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to S3 object keys.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// TraceConfig contains tracing settings.
type TraceConfig struct {
	// Exporter is none or stdout. Default: none.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory. It looks for
// vango-lite.json first and vango-lite.yaml second.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return LoadFile(jsonPath)
	}
	yamlPath := filepath.Join(dir, YAMLConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return LoadFile(yamlPath)
	}
	return nil, errors.New("E141").
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or run without a config file to use defaults")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path, as YAML if the
// path has a YAML extension.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Render.MaxPasses == 0 {
		c.Render.MaxPasses = DefaultMaxPasses
	}
	if c.Hooks.StrictOrder == nil {
		strict := true
		c.Hooks.StrictOrder = &strict
	}
	if c.Memo.CacheSize == nil {
		size := DefaultMemoCacheSize
		c.Memo.CacheSize = &size
	}
	if c.Lazy.Timeout == "" {
		c.Lazy.Timeout = DefaultLazyTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}

	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}

	if c.Trace.Exporter == "" {
		c.Trace.Exporter = "none"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Render.MaxPasses < 1 {
		return errors.New("E120").
			WithDetailf("render.maxPasses must be at least 1, got %d", c.Render.MaxPasses)
	}
	if c.Memo.CacheSize != nil && *c.Memo.CacheSize < 0 {
		return errors.New("E120").
			WithDetailf("memo.cacheSize must not be negative, got %d", *c.Memo.CacheSize)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("E120").
			WithDetail("preview.port must be between 0 and 65535")
	}
	if _, err := time.ParseDuration(c.Lazy.Timeout); err != nil {
		return errors.New("E120").
			WithDetail("lazy.timeout is not a duration").
			Wrap(err)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E120").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return errors.New("E120").
			WithDetailf("log.format %q is not one of text, json", c.Log.Format)
	}
	if e := c.Trace.Exporter; e != "none" && e != "stdout" {
		return errors.New("E120").
			WithDetailf("trace.exporter %q is not one of none, stdout", e)
	}
	return nil
}

// StrictHookOrder reports whether hook order violations fail the pass.
func (c *Config) StrictHookOrder() bool {
	return c.Hooks.StrictOrder == nil || *c.Hooks.StrictOrder
}

// MemoCacheSize returns the memo cache capacity (0 = unbounded).
func (c *Config) MemoCacheSize() int {
	if c.Memo.CacheSize == nil {
		return DefaultMemoCacheSize
	}
	return *c.Memo.CacheSize
}

// LazyTimeout returns the lazy load wait timeout.
func (c *Config) LazyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Lazy.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultLazyTimeout)
	}
	return d
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// PreviewAddress returns the address string for the preview server.
func (c *Config) PreviewAddress() string {
	return net.JoinHostPort(c.Preview.Host, strconv.Itoa(c.Preview.Port))
}

// SetPreviewAddress overrides the preview host and port from a "host:port"
// address.
func (c *Config) SetPreviewAddress(addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("E120").WithDetailf("preview address %q", addr).Wrap(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return errors.New("E120").WithDetailf("preview port %q must be 1-65535", portStr)
	}
	c.Preview.Host, c.Preview.Port = host, port
	return nil
}

// PreviewURL returns the full URL for the preview server.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// ExportPath returns the absolute path to the snapshot directory.
func (c *Config) ExportPath() string {
	if filepath.IsAbs(c.Export.Dir) {
		return c.Export.Dir
	}
	return filepath.Join(c.Dir(), c.Export.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or one of its parents. Without a config file it returns the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.IsCode(err, "E141") {
			return New(), nil
		}
		return nil, err
	}

	return Load(root)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
