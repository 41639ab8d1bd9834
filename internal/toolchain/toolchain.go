package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind describes how a resolved value is checked.
type Kind string

const (
	// KindString accepts any non-blank value.
	KindString Kind = "string"
	// KindPath requires an existing directory.
	KindPath Kind = "path"
	// KindInt requires a base-10 integer.
	KindInt Kind = "int"
)

var (
	// ErrInvalidValue wraps every validation failure.
	ErrInvalidValue = errors.New("invalid configuration value")
	// ErrUnknownKind is returned for kinds other than string, path and int.
	ErrUnknownKind = errors.New("unknown value kind")
)

// ParseKind maps a configuration string to a Kind. Empty means KindString.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case "":
		return KindString, nil
	case KindString, KindPath, KindInt:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// Validate checks value against kind. For KindPath a non-empty marker must
// exist relative to the directory, e.g. the gradle script a Flutter SDK ships.
func Validate(key, value string, kind Kind, marker string) error {
	switch kind {
	case KindString, "":
		return nil
	case KindInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, key, value)
		}
		return nil
	case KindPath:
		return validateDir(key, value, marker)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func validateDir(key, dir, marker string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, key, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s=%q is not a directory", ErrInvalidValue, key, dir)
	}

	if marker == "" {
		return nil
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(marker))); err != nil {
		return fmt.Errorf("%w: %s=%q does not contain %s", ErrInvalidValue, key, dir, marker)
	}
	return nil
}
