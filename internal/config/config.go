package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/sdkpath/internal/toolchain"
)

const (
	defaultPropertiesFile = "local.properties"
	defaultFormat         = "plain"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

var (
	formats    = []string{"plain", "env", "json", "yaml"}
	logFormats = []string{"console", "json"}
)

// Entry describes one value to resolve. Sources are consulted in the order
// properties file, environment variable (Env), literal Default.
type Entry struct {
	Key     string `yaml:"key"`
	Env     string `yaml:"env"`
	Default string `yaml:"default"`
	Kind    string `yaml:"kind"`
	Marker  string `yaml:"marker"`
	Hint    string `yaml:"hint"`
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	ProjectDir       string
	PropertiesFile   string
	Format           string
	LogLevel         string
	LogFormat        string
	StrictProperties bool
	FindProjectRoot  bool
	Entries          []Entry
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	ProjectDir       string  `yaml:"project_dir"`
	PropertiesFile   string  `yaml:"properties_file"`
	Format           string  `yaml:"format"`
	StrictProperties *bool   `yaml:"strict_properties"`
	FindProjectRoot  *bool   `yaml:"find_project_root"`
	Log              yamlLog `yaml:"log"`
	Entries          []Entry `yaml:"entries"`
}

type yamlLog struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile       string
	ProjectDir       *string
	PropertiesFile   *string
	Format           *string
	LogLevel         *string
	LogFormat        *string
	StrictProperties *bool
	FindProjectRoot  *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DefaultEntries mirrors what an Android Flutter module reads from
// local.properties before applying the Flutter gradle plugin.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Key:    "flutter.sdk",
			Env:    "FLUTTER_ROOT",
			Kind:   string(toolchain.KindPath),
			Marker: "packages/flutter_tools/gradle/flutter.gradle",
			Hint:   "Flutter SDK not found. Define location with flutter.sdk in the local.properties file.",
		},
		{
			Key:     "flutter.versionCode",
			Default: "1",
			Kind:    string(toolchain.KindInt),
		},
		{
			Key:     "flutter.versionName",
			Default: "1.0",
		},
	}
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		ProjectDir:     ".",
		PropertiesFile: defaultPropertiesFile,
		Format:         defaultFormat,
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
		Entries:        DefaultEntries(),
	}
}

// loadFromFile loads configuration from a YAML file, rejecting unknown fields.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&yamlCfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.ProjectDir != "" {
		cfg.ProjectDir = yamlCfg.ProjectDir
	}
	if yamlCfg.PropertiesFile != "" {
		cfg.PropertiesFile = yamlCfg.PropertiesFile
	}
	if yamlCfg.Format != "" {
		cfg.Format = yamlCfg.Format
	}
	if yamlCfg.StrictProperties != nil {
		cfg.StrictProperties = *yamlCfg.StrictProperties
	}
	if yamlCfg.FindProjectRoot != nil {
		cfg.FindProjectRoot = *yamlCfg.FindProjectRoot
	}
	if yamlCfg.Log.Level != "" {
		cfg.LogLevel = yamlCfg.Log.Level
	}
	if yamlCfg.Log.Format != "" {
		cfg.LogFormat = yamlCfg.Log.Format
	}
	if len(yamlCfg.Entries) > 0 {
		cfg.Entries = normalizeEntries(yamlCfg.Entries)
	}
}

// normalizeEntries trims the names an entry is matched by, so keys and
// variable names written with stray whitespace in YAML still resolve.
func normalizeEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		entry.Key = strings.TrimSpace(entry.Key)
		entry.Env = strings.TrimSpace(entry.Env)
		entry.Kind = strings.TrimSpace(entry.Kind)
		entry.Marker = strings.TrimSpace(entry.Marker)
		out[i] = entry
	}
	return out
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	if dir := strings.TrimSpace(os.Getenv("SDKPATH_PROJECT_DIR")); dir != "" {
		cfg.ProjectDir = dir
	}
	if file := strings.TrimSpace(os.Getenv("SDKPATH_PROPERTIES")); file != "" {
		cfg.PropertiesFile = file
	}
	if format := strings.TrimSpace(os.Getenv("SDKPATH_FORMAT")); format != "" {
		cfg.Format = format
	}
	if level := strings.TrimSpace(os.Getenv("SDKPATH_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}
	if format := strings.TrimSpace(os.Getenv("SDKPATH_LOG_FORMAT")); format != "" {
		cfg.LogFormat = format
	}
	if raw := strings.TrimSpace(os.Getenv("SDKPATH_STRICT")); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("SDKPATH_STRICT: %w", err)
		}
		cfg.StrictProperties = strict
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.ProjectDir != nil && *overrides.ProjectDir != "" {
		cfg.ProjectDir = *overrides.ProjectDir
	}
	if overrides.PropertiesFile != nil && *overrides.PropertiesFile != "" {
		cfg.PropertiesFile = *overrides.PropertiesFile
	}
	if overrides.Format != nil && *overrides.Format != "" {
		cfg.Format = *overrides.Format
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}
	if overrides.LogFormat != nil && *overrides.LogFormat != "" {
		cfg.LogFormat = *overrides.LogFormat
	}
	if overrides.StrictProperties != nil {
		cfg.StrictProperties = *overrides.StrictProperties
	}
	if overrides.FindProjectRoot != nil {
		cfg.FindProjectRoot = *overrides.FindProjectRoot
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if !slices.Contains(formats, cfg.Format) {
		return fmt.Errorf("format must be one of %s, got %q", strings.Join(formats, ", "), cfg.Format)
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return fmt.Errorf("log format must be one of %s, got %q", strings.Join(logFormats, ", "), cfg.LogFormat)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if strings.TrimSpace(cfg.PropertiesFile) == "" {
		return fmt.Errorf("properties file cannot be empty")
	}
	if len(cfg.Entries) == 0 {
		return fmt.Errorf("at least one entry must be configured")
	}

	seen := make(map[string]struct{}, len(cfg.Entries))
	for i, entry := range cfg.Entries {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			return fmt.Errorf("entry %d: key cannot be empty", i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("entry %d: duplicate key %q", i, key)
		}
		seen[key] = struct{}{}
		if _, err := toolchain.ParseKind(entry.Kind); err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
	}
	return nil
}

// Lookup returns the entry configured for key.
func (c Config) Lookup(key string) (Entry, bool) {
	for _, entry := range c.Entries {
		if entry.Key == key {
			return entry, true
		}
	}
	return Entry{}, false
}
