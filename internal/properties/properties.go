package properties

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Policy controls how lines without a key/value separator are handled.
type Policy int

const (
	// Lenient skips malformed lines as if they were absent.
	Lenient Policy = iota
	// Strict fails parsing on the first malformed line.
	Strict
)

// String returns the policy name used in configuration.
func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

var (
	// ErrMalformedLine indicates a line that is neither a comment nor an
	// assignment, or that holds an invalid \u escape.
	ErrMalformedLine = errors.New("malformed property line")
)

// MalformedLineError reports the offending line in Strict mode.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s %d: %q", ErrMalformedLine, e.Line, e.Text)
}

func (e *MalformedLineError) Unwrap() error {
	return ErrMalformedLine
}

// Option configures parsing.
type Option func(*options)

type options struct {
	policy Policy
}

// WithPolicy selects the malformed-line policy. The default is Lenient.
func WithPolicy(policy Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// Properties is an immutable set of parsed assignments.
type Properties struct {
	values map[string]string
}

// Get returns the value stored for key.
func (p Properties) Get(key string) (string, bool) {
	value, ok := p.values[key]
	return value, ok
}

// Keys returns all keys in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for key := range p.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of distinct keys.
func (p Properties) Len() int {
	return len(p.values)
}

// Load reads and parses the property file at path. A missing file yields an
// error matching fs.ErrNotExist.
func Load(path string, opts ...Option) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Properties{}, fmt.Errorf("read properties: %w", err)
	}
	props, err := Parse(data, opts...)
	if err != nil {
		return Properties{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return props, nil
}

// Parse decodes key=value assignments. Later assignments of a key win.
func Parse(data []byte, opts ...Option) (Properties, error) {
	o := options{policy: Lenient}
	for _, opt := range opts {
		opt(&o)
	}

	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		start := lineNo
		line := strings.TrimLeft(scanner.Text(), " \t\f")
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		// Logical lines continue while the physical line ends in an odd
		// number of backslashes.
		for continues(line) && scanner.Scan() {
			lineNo++
			line = line[:len(line)-1] + strings.TrimLeft(scanner.Text(), " \t\f")
		}
		if continues(line) {
			line = line[:len(line)-1]
		}

		key, value, ok := split(line)
		if !ok {
			if o.policy == Strict {
				return Properties{}, &MalformedLineError{Line: start, Text: line}
			}
			continue
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return Properties{}, fmt.Errorf("scan properties: %w", err)
	}

	return Properties{values: values}, nil
}

func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// split separates a logical line at the first unescaped '=' or ':'. It
// reports false for a line without a key or with an invalid \u escape.
func split(line string) (string, string, bool) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '=', ':':
			key, ok := unescape(line[:i])
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return "", "", false
			}
			value, ok := unescape(strings.TrimLeft(line[i+1:], " \t\f"))
			if !ok {
				return "", "", false
			}
			return key, value, true
		}
	}
	return "", "", false
}

// unescape decodes backslash escapes, including \uXXXX.
func unescape(s string) (string, bool) {
	if !strings.Contains(s, `\`) {
		return s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+5 > len(s) {
				return "", false
			}
			code, err := strconv.ParseUint(s[i+1:i+5], 16, 16)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), true
}
