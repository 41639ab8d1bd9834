package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/sdkpath/internal/application"
	"github.com/eugenenazirov/sdkpath/internal/config"
	"github.com/eugenenazirov/sdkpath/internal/logging"
	"github.com/eugenenazirov/sdkpath/internal/output"
)

func main() {
	kingpinApp := kingpin.New("sdkpath", "Resolves SDK locations and build settings from local.properties, environment and defaults")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	projectDir := kingpinApp.Flag("project-dir", "Directory holding the properties file").String()
	propertiesFile := kingpinApp.Flag("properties", "Properties file, relative to the project dir").String()
	format := kingpinApp.Flag("format", "Output format: plain, env, json, yaml").String()
	logLevel := kingpinApp.Flag("log-level", "Log level: debug, info, warn, error").String()
	logFormat := kingpinApp.Flag("log-format", "Log encoding: console, json").String()

	var strictSet, findRootSet bool
	strict := kingpinApp.Flag("strict", "Fail on malformed properties lines instead of skipping them").IsSetByUser(&strictSet).Bool()
	findRoot := kingpinApp.Flag("find-root", "Walk up to the Gradle project root before reading the properties file").IsSetByUser(&findRootSet).Bool()
	keys := kingpinApp.Arg("key", "Keys to resolve (default: every configured entry)").Strings()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile:     *configFile,
		ProjectDir:     projectDir,
		PropertiesFile: propertiesFile,
		Format:         format,
		LogLevel:       logLevel,
		LogFormat:      logFormat,
	}
	if strictSet {
		overrides.StrictProperties = strict
	}
	if findRootSet {
		overrides.FindProjectRoot = findRoot
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		kingpinApp.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(cfg, logger, os.Stdout, *keys); err != nil {
		logger.Fatal("failed to resolve configuration", zap.Error(err))
	}
}

// run resolves the requested keys, or every configured entry, and writes them
// to out in the configured format.
func run(cfg config.Config, logger *zap.Logger, out io.Writer, keys []string, opts ...application.Option) error {
	writer, err := output.GetWriter(cfg.Format)
	if err != nil {
		return err
	}

	app, err := application.New(cfg, logger, opts...)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	results, err := app.Run(keys...)
	if err != nil {
		return err
	}

	return writer.Write(out, results)
}
