package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SDKPATH_PROJECT_DIR",
		"SDKPATH_PROPERTIES",
		"SDKPATH_FORMAT",
		"SDKPATH_LOG_LEVEL",
		"SDKPATH_LOG_FORMAT",
		"SDKPATH_STRICT",
	} {
		t.Setenv(name, "")
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdkpath.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.PropertiesFile != defaultPropertiesFile {
		t.Fatalf("expected default properties file %s, got %s", defaultPropertiesFile, cfg.PropertiesFile)
	}
	if cfg.Format != defaultFormat || cfg.LogFormat != defaultLogFormat || cfg.LogLevel != defaultLogLevel {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StrictProperties {
		t.Fatalf("expected lenient properties parsing by default")
	}

	sdk, ok := cfg.Lookup("flutter.sdk")
	if !ok {
		t.Fatalf("expected flutter.sdk entry")
	}
	if sdk.Env != "FLUTTER_ROOT" || sdk.Kind != "path" {
		t.Fatalf("unexpected flutter.sdk entry: %+v", sdk)
	}
	if code, _ := cfg.Lookup("flutter.versionCode"); code.Default != "1" {
		t.Fatalf("expected versionCode default 1, got %q", code.Default)
	}
	if name, _ := cfg.Lookup("flutter.versionName"); name.Default != "1.0" {
		t.Fatalf("expected versionName default 1.0, got %q", name.Default)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SDKPATH_PROPERTIES", "android/local.properties")
	t.Setenv("SDKPATH_FORMAT", "json")
	t.Setenv("SDKPATH_STRICT", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.PropertiesFile != "android/local.properties" {
		t.Fatalf("expected overridden properties file, got %s", cfg.PropertiesFile)
	}
	if cfg.Format != "json" {
		t.Fatalf("expected json format, got %s", cfg.Format)
	}
	if !cfg.StrictProperties {
		t.Fatalf("expected strict parsing from environment")
	}
}

func TestLoadInvalidStrictEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SDKPATH_STRICT", "sometimes")

	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for invalid SDKPATH_STRICT")
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
project_dir: /yaml/project
format: yaml
strict_properties: true
log:
  level: debug
  format: json
entries:
  - key: sdk.dir
    env: ANDROID_HOME
    kind: path
`)
	t.Setenv("SDKPATH_FORMAT", "env")

	format := "json"
	strict := false
	cfg, err := Load(&CLIOverrides{
		ConfigFile:       path,
		Format:           &format,
		StrictProperties: &strict,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ProjectDir != "/yaml/project" {
		t.Fatalf("expected project dir from YAML, got %s", cfg.ProjectDir)
	}
	if cfg.Format != "json" {
		t.Fatalf("expected CLI format to win, got %s", cfg.Format)
	}
	if cfg.StrictProperties {
		t.Fatalf("expected CLI to disable strict parsing")
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("expected log settings from YAML, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if len(cfg.Entries) != 1 || cfg.Entries[0].Key != "sdk.dir" {
		t.Fatalf("expected YAML entries to replace defaults, got %+v", cfg.Entries)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "format: yaml\n")
	t.Setenv("SDKPATH_FORMAT", "env")

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Format != "env" {
		t.Fatalf("expected environment to override YAML, got %s", cfg.Format)
	}
}

func TestLoadTrimsEntryNames(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
entries:
  - key: " sdk.dir "
    env: " ANDROID_HOME"
    kind: " path "
  - key: "sdk.dir\t"
`)

	_, err := Load(&CLIOverrides{ConfigFile: path})
	if err == nil || !strings.Contains(err.Error(), "duplicate key") {
		t.Fatalf("expected trimmed keys to collide, got %v", err)
	}

	path = writeYAML(t, "entries:\n  - key: \" sdk.dir \"\n    env: \" ANDROID_HOME\"\n    kind: \" path \"\n")
	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	entry, ok := cfg.Lookup("sdk.dir")
	if !ok {
		t.Fatalf("expected entry under trimmed key, got %+v", cfg.Entries)
	}
	if entry.Env != "ANDROID_HOME" || entry.Kind != "path" {
		t.Fatalf("expected trimmed env and kind, got %+v", entry)
	}
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "")

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Entries) != len(DefaultEntries()) {
		t.Fatalf("expected default entries, got %+v", cfg.Entries)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "UnknownField", yaml: "colour: blue\n", want: "parse YAML"},
		{name: "BadFormat", yaml: "format: xml\n", want: "format must be one of"},
		{name: "BadLogFormat", yaml: "log:\n  format: logfmt\n", want: "log format"},
		{name: "BadLogLevel", yaml: "log:\n  level: loud\n", want: "log level"},
		{name: "EmptyKey", yaml: "entries:\n  - env: X\n", want: "key cannot be empty"},
		{name: "DuplicateKey", yaml: "entries:\n  - key: a\n  - key: a\n", want: "duplicate key"},
		{name: "UnknownKind", yaml: "entries:\n  - key: a\n    kind: url\n", want: "unknown value kind"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			path := writeYAML(t, tc.yaml)

			_, err := Load(&CLIOverrides{ConfigFile: path})
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
