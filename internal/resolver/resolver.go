package resolver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Request lists the sources consulted for Key, highest precedence first.
type Request struct {
	Key     string
	Sources []Source
	// Hint is appended to the failure message when nothing resolves.
	Hint string
}

// Result is a resolved value and the source that produced it.
type Result struct {
	Key    string
	Value  string
	Source Source
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger traces skipped and winning sources at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver walks ordered sources and returns the first non-blank value.
type Resolver struct {
	logger *zap.Logger
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves req with a silent Resolver.
func Resolve(req Request) (Result, error) {
	return New().Resolve(req)
}

// Resolve returns the value of the first source holding a non-blank value,
// exactly as the source stored it.
func (r *Resolver) Resolve(req Request) (Result, error) {
	if len(req.Sources) == 0 {
		return Result{}, fmt.Errorf("resolve %q: %w", req.Key, ErrNoSources)
	}

	attempted := make([]string, 0, len(req.Sources))
	for _, src := range req.Sources {
		name := src.Name()
		attempted = append(attempted, name)

		value, found, err := src.Lookup()
		if err != nil {
			return Result{}, fmt.Errorf("resolve %q from %s: %w", req.Key, name, err)
		}
		if !found || strings.TrimSpace(value) == "" {
			r.logger.Debug("source has no value",
				zap.String("key", req.Key),
				zap.String("source", name),
				zap.Bool("found", found),
			)
			continue
		}

		r.logger.Debug("configuration resolved",
			zap.String("key", req.Key),
			zap.String("source", name),
		)
		return Result{Key: req.Key, Value: value, Source: src}, nil
	}

	return Result{}, &MissingConfigurationError{
		Key:       req.Key,
		Attempted: attempted,
		Hint:      req.Hint,
	}
}
