package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/sdkpath/internal/config"
	"github.com/eugenenazirov/sdkpath/internal/properties"
	"github.com/eugenenazirov/sdkpath/internal/resolver"
	"github.com/eugenenazirov/sdkpath/internal/toolchain"
)

// rootMarkers identify the root of a Gradle project checkout.
var rootMarkers = []string{"settings.gradle.kts", "settings.gradle"}

// App turns configured entries into resolution requests.
type App struct {
	cfg       config.Config
	resolver  *resolver.Resolver
	logger    *zap.Logger
	lookupEnv func(string) (string, bool)
	workDir   string
}

// Option configures App.
type Option func(*App)

// WithLookupEnv overrides the environment lookup, primarily for tests.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(a *App) {
		a.lookupEnv = lookup
	}
}

// WithWorkingDir sets the directory relative paths and root discovery start from.
func WithWorkingDir(dir string) Option {
	return func(a *App) {
		a.workDir = dir
	}
}

// New initializes the application from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{
		cfg:       cfg,
		resolver:  resolver.New(resolver.WithLogger(logger)),
		logger:    logger,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		app.workDir = wd
	}

	return app, nil
}

// PropertiesPath returns the property file consulted by every entry.
func (a *App) PropertiesPath() string {
	if filepath.IsAbs(a.cfg.PropertiesFile) {
		return a.cfg.PropertiesFile
	}
	return filepath.Join(a.projectDir(), a.cfg.PropertiesFile)
}

// projectDir resolves the configured project dir against the working dir,
// walking up to the Gradle root when FindProjectRoot is set.
func (a *App) projectDir() string {
	dir := a.cfg.ProjectDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(a.workDir, dir)
	}
	if !a.cfg.FindProjectRoot {
		return dir
	}

	markers := append([]string{a.cfg.PropertiesFile}, rootMarkers...)
	root, err := findProjectRoot(dir, markers)
	if err != nil {
		a.logger.Debug("project root not found, using project dir", zap.String("dir", dir), zap.Error(err))
		return dir
	}
	return root
}

// Requests builds one request per entry, or per key when keys are given.
// Keys without a configured entry are looked up in the property file only.
func (a *App) Requests(keys ...string) []resolver.Request {
	entries := a.cfg.Entries
	if len(keys) > 0 {
		entries = make([]config.Entry, 0, len(keys))
		for _, key := range keys {
			key = strings.TrimSpace(key)
			entry, ok := a.cfg.Lookup(key)
			if !ok {
				entry = config.Entry{Key: key}
			}
			entries = append(entries, entry)
		}
	}

	propsPath := a.PropertiesPath()
	policy := properties.Lenient
	if a.cfg.StrictProperties {
		policy = properties.Strict
	}

	requests := make([]resolver.Request, 0, len(entries))
	for _, entry := range entries {
		sources := []resolver.Source{
			resolver.FileSource{Path: propsPath, Key: entry.Key, Policy: policy},
		}
		if entry.Env != "" {
			sources = append(sources, resolver.EnvSource{Var: entry.Env, LookupEnv: a.lookupEnv})
		}
		if entry.Default != "" {
			sources = append(sources, resolver.DefaultSource{Value: entry.Default})
		}
		requests = append(requests, resolver.Request{
			Key:     entry.Key,
			Sources: sources,
			Hint:    entry.Hint,
		})
	}
	return requests
}

// Run resolves and validates entries in order, stopping at the first failure.
func (a *App) Run(keys ...string) ([]resolver.Result, error) {
	requests := a.Requests(keys...)
	results := make([]resolver.Result, 0, len(requests))

	for _, req := range requests {
		res, err := a.resolver.Resolve(req)
		if err != nil {
			return nil, err
		}

		entry, _ := a.cfg.Lookup(req.Key)
		kind, err := toolchain.ParseKind(entry.Kind)
		if err != nil {
			return nil, err
		}
		if err := toolchain.Validate(req.Key, res.Value, kind, entry.Marker); err != nil {
			return nil, err
		}

		a.logger.Info("resolved",
			zap.String("key", res.Key),
			zap.String("source", res.Source.Name()),
		)
		results = append(results, res)
	}

	return results, nil
}

// findProjectRoot walks up from start to the first directory holding any marker.
func findProjectRoot(start string, markers []string) (string, error) {
	dir := start
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate project root from %s", start)
}
