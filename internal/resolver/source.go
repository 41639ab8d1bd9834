package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/eugenenazirov/sdkpath/internal/properties"
)

// Source is one place a configuration value may come from.
type Source interface {
	// Lookup returns the raw value and whether the source holds one. An error
	// is only returned when the source is configured to surface failures.
	Lookup() (value string, found bool, err error)
	// Name describes the source in logs and error messages.
	Name() string
}

// FileSource reads Key from the property file at Path.
type FileSource struct {
	Path   string
	Key    string
	Policy properties.Policy
}

// Lookup treats a missing file as absent. Under the Lenient policy read and
// parse failures are absent too; Strict surfaces them.
func (s FileSource) Lookup() (string, bool, error) {
	props, err := properties.Load(s.Path, properties.WithPolicy(s.Policy))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || s.Policy == properties.Lenient {
			return "", false, nil
		}
		return "", false, err
	}
	value, ok := props.Get(s.Key)
	return value, ok, nil
}

func (s FileSource) Name() string {
	return fmt.Sprintf("%s in %s", s.Key, s.Path)
}

// EnvSource reads the environment variable Var.
type EnvSource struct {
	Var string
	// LookupEnv defaults to os.LookupEnv when nil.
	LookupEnv func(string) (string, bool)
}

func (s EnvSource) Lookup() (string, bool, error) {
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(s.Var)
	return value, ok, nil
}

func (s EnvSource) Name() string {
	return "environment variable " + s.Var
}

// DefaultSource always yields the literal Value.
type DefaultSource struct {
	Value string
}

func (s DefaultSource) Lookup() (string, bool, error) {
	return s.Value, true, nil
}

func (s DefaultSource) Name() string {
	return "default"
}

// StaticSource is an in-memory source.
type StaticSource struct {
	Label string
	Value string
	Found bool
}

func (s StaticSource) Lookup() (string, bool, error) {
	return s.Value, s.Found, nil
}

func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}
