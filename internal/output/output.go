package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/sdkpath/internal/resolver"
)

// Writer writes resolved values in a specific format.
type Writer interface {
	Write(w io.Writer, results []resolver.Result) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "plain":
		return &PlainWriter{}, nil
	case "env":
		return &EnvWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "yaml":
		return &YAMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

type record struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

func records(results []resolver.Result) []record {
	out := make([]record, 0, len(results))
	for _, r := range results {
		rec := record{Key: r.Key, Value: r.Value}
		if r.Source != nil {
			rec.Source = r.Source.Name()
		}
		out = append(out, rec)
	}
	return out
}

// PlainWriter prints one value per line, in request order.
type PlainWriter struct{}

func (p *PlainWriter) Write(w io.Writer, results []resolver.Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, r.Value); err != nil {
			return fmt.Errorf("writing value: %w", err)
		}
	}
	return nil
}

// EnvWriter prints shell assignments, e.g. FLUTTER_SDK='/opt/flutter'.
type EnvWriter struct{}

func (e *EnvWriter) Write(w io.Writer, results []resolver.Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s=%s\n", EnvName(r.Key), shellQuote(r.Value)); err != nil {
			return fmt.Errorf("writing assignment: %w", err)
		}
	}
	return nil
}

// EnvName converts a property key to an environment variable name.
func EnvName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// JSONWriter outputs an array of {key, value, source} objects.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, results []resolver.Result) error {
	data, err := json.MarshalIndent(records(results), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// YAMLWriter outputs the same records as JSONWriter in YAML.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, results []resolver.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(results)); err != nil {
		return fmt.Errorf("writing YAML: %w", err)
	}
	return enc.Close()
}
