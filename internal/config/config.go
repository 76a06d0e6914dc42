// Package config loads application configuration from file and environment
// and owns global logger initialization.
package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input    string         `yaml:"input" mapstructure:"input"`
	Output   string         `yaml:"output" mapstructure:"output"`
	Columns  ColumnsConfig  `yaml:"columns" mapstructure:"columns"`
	Geoapify GeoapifyConfig `yaml:"geoapify" mapstructure:"geoapify"`
	Enrich   EnrichConfig   `yaml:"enrich" mapstructure:"enrich"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ColumnsConfig names the dataset columns involved in enrichment.
type ColumnsConfig struct {
	Lat  string `yaml:"lat" mapstructure:"lat"`
	Lon  string `yaml:"lon" mapstructure:"lon"`
	Code string `yaml:"code" mapstructure:"code"`
}

// GeoapifyConfig holds Geoapify API settings.
type GeoapifyConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// EnrichConfig configures the enrichment pass.
type EnrichConfig struct {
	DelayMS         int `yaml:"delay_ms" mapstructure:"delay_ms"`
	ProgressEvery   int `yaml:"progress_every" mapstructure:"progress_every"`
	CheckpointEvery int `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input", "database.xlsx")
	v.SetDefault("output", "database_with_pincodes.xlsx")
	v.SetDefault("columns.lat", "LAT")
	v.SetDefault("columns.lon", "LONG")
	v.SetDefault("columns.code", "Pincode")
	v.SetDefault("geoapify.key", "")
	v.SetDefault("geoapify.base_url", "https://api.geoapify.com/v1/geocode/reverse")
	v.SetDefault("geoapify.timeout_secs", 10)
	v.SetDefault("enrich.delay_ms", 100)
	v.SetDefault("enrich.progress_every", 50)
	v.SetDefault("enrich.checkpoint_every", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// The upstream name of the credential variable still works.
	if cfg.Geoapify.Key == "" {
		cfg.Geoapify.Key = os.Getenv("GEOAPIFY_API_KEY")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
