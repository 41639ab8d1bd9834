package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/sdkpath/internal/resolver"
)

func sampleResults() []resolver.Result {
	return []resolver.Result{
		{Key: "flutter.sdk", Value: "/opt/flutter", Source: resolver.EnvSource{Var: "FLUTTER_ROOT"}},
		{Key: "flutter.versionName", Value: "it's 1.0", Source: resolver.DefaultSource{Value: "1.0"}},
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"plain", "env", "json", "yaml"} {
		if _, err := GetWriter(format); err != nil {
			t.Fatalf("GetWriter(%q) error: %v", format, err)
		}
	}
	if _, err := GetWriter("xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestPlainWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&PlainWriter{}).Write(&buf, sampleResults()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if got, want := buf.String(), "/opt/flutter\nit's 1.0\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEnvWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&EnvWriter{}).Write(&buf, sampleResults()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	want := "FLUTTER_SDK='/opt/flutter'\nFLUTTER_VERSIONNAME='it'\\''s 1.0'\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEnvName(t *testing.T) {
	cases := map[string]string{
		"flutter.sdk":         "FLUTTER_SDK",
		"sdk.dir":             "SDK_DIR",
		"flutter.versionCode": "FLUTTER_VERSIONCODE",
		"ndk-bundle.2":        "NDK_BUNDLE_2",
	}
	for key, want := range cases {
		if got := EnvName(key); got != want {
			t.Errorf("EnvName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleResults()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed []record
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	want := []record{
		{Key: "flutter.sdk", Value: "/opt/flutter", Source: "environment variable FLUTTER_ROOT"},
		{Key: "flutter.versionName", Value: "it's 1.0", Source: "default"},
	}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Errorf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLWriter{}).Write(&buf, sampleResults()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var parsed []record
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid YAML: %v", err)
	}
	if len(parsed) != 2 || parsed[0].Value != "/opt/flutter" || parsed[1].Source != "default" {
		t.Errorf("unexpected records: %+v", parsed)
	}
}

func TestJSONWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("output = %q, want %q", got, "[]\n")
	}
}
