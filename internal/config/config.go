// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/iwvelando/city-budget/pkg/constants"
	"github.com/iwvelando/city-budget/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for city-budget.
type Configuration struct {
	Data    DataConfig
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// DataConfig locates the two ledger files and describes their layout.
type DataConfig struct {
	ExpenseFile string   `yaml:"expenseFile"`
	RevenueFile string   `yaml:"revenueFile"`
	Delimiter   string   `yaml:"delimiter"`
	Years       []string `yaml:"years,omitempty"` // empty means every year column in the files
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, html
}

// LoadEnvFile loads environment overrides from a dotenv file. A missing file is
// not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Relative ledger paths are resolved against the directory
// of the configuration file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}
	conf.resolvePaths(filepath.Dir(configPath))
	return conf, nil
}

// LoadConfigurationFromReader loads YAML configuration from r. Ledger paths are
// used as given.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")

	v.SetDefault("data.expenseFile", constants.DefaultExpenseFile)
	v.SetDefault("data.revenueFile", constants.DefaultRevenueFile)
	v.SetDefault("data.delimiter", constants.DefaultDelimiter)
	v.SetDefault("data.years", []string{})
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	for i, year := range configuration.Data.Years {
		configuration.Data.Years[i] = strings.TrimSpace(year)
	}

	if err := validation.ValidateData(configuration.Data.validationConfig()); err != nil {
		return nil, fmt.Errorf("invalid data configuration: %w", err)
	}
	return &configuration, nil
}

func (conf *Configuration) resolvePaths(baseDir string) {
	if baseDir == "" || baseDir == "." {
		return
	}
	if conf.Data.ExpenseFile != "" && !filepath.IsAbs(conf.Data.ExpenseFile) {
		conf.Data.ExpenseFile = filepath.Join(baseDir, conf.Data.ExpenseFile)
	}
	if conf.Data.RevenueFile != "" && !filepath.IsAbs(conf.Data.RevenueFile) {
		conf.Data.RevenueFile = filepath.Join(baseDir, conf.Data.RevenueFile)
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	warnings := validation.DataWarnings(conf.Data.validationConfig())

	if format := conf.Output.Format; format != "" {
		if err := validation.ValidateOutputFormat(format); err != nil {
			warnings = append(warnings, fmt.Sprintf("output format ignored: %v", err))
		}
	}

	return warnings
}

func (d DataConfig) validationConfig() validation.DataConfig {
	return validation.DataConfig{
		ExpenseFile: d.ExpenseFile,
		RevenueFile: d.RevenueFile,
		Delimiter:   d.Delimiter,
		Years:       d.Years,
	}
}
