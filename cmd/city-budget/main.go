package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/city-budget/internal/budget"
	"github.com/iwvelando/city-budget/internal/config"
	"github.com/iwvelando/city-budget/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath       string
	serverConfigPath string
	envFile          string
	logLevel         string
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// CLI override takes precedence
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// loadConfiguration reads the env file and the budget configuration, then builds
// the logger. A non-empty loggingOverride replaces the configuration's logging
// section.
func (o *rootOptions) loadConfiguration(loggingOverride config.LoggingConfig) (*config.Configuration, *zap.Logger, error) {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return nil, nil, err
	}

	conf, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}

	loggingConfig := conf.Logging
	if loggingOverride != (config.LoggingConfig{}) {
		loggingConfig = loggingOverride
	}
	logger, err := initializeLogger(loggingConfig, o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.loadConfiguration"),
		)
	}
	return conf, logger, nil
}

// loadBudget loads the configuration and both ledgers.
func (o *rootOptions) loadBudget(ctx context.Context) (*config.Configuration, *zap.Logger, *budget.Budget, error) {
	conf, logger, err := o.loadConfiguration(config.LoggingConfig{})
	if err != nil {
		return nil, nil, nil, err
	}

	b, err := budgetFor(ctx, logger, conf)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return conf, logger, b, nil
}

func budgetFor(ctx context.Context, logger *zap.Logger, conf *config.Configuration) (*budget.Budget, error) {
	b, err := budget.Load(ctx, logger, conf.Data)
	if err != nil {
		logger.Error("failed to load budget",
			zap.String("op", "main.budgetFor"),
			zap.Error(err),
		)
		return nil, err
	}
	return b, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "city-budget",
		Short: "Explore a city's expense and revenue ledgers",
		Long: `city-budget loads a city's expense and revenue ledgers and turns
selections over them into charts.

It supports:
- Serving an interactive dashboard with year, range and department selectors
- Exporting a single chart as text, CSV, JSON or a standalone HTML page
- Validating ledgers and configuration before deployment

Example:
  city-budget serve
  city-budget chart split --year 2017
  city-budget chart departments --ledger expense --name Police --name Fire --output-format html --out police.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to environment override file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newChartCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}
}
