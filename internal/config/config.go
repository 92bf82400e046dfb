package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/render"
	"github.com/dgallion1/docstruct/internal/structure"
)

type Config struct {
	// Structure building
	StructureType string
	// BoundaryChars is the sentence-boundary class. Only its whitespace
	// members join annotations; see annotation.DefaultBoundary.
	BoundaryChars string

	// Output
	OutputFormat string
	LogFormat    string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Input limits
	MaxInputBytes  int64
	ValidateSchema bool

	// Job state and build statistics
	JobTTL      time.Duration
	StatsWindow time.Duration

	// Chunking defaults
	ChunkSize    int
	ChunkOverlap int

	// File the values were read from, empty when none was found.
	ConfigFile string
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"structure":  "structure_type",
	"output":     "output_format",
	"log-format": "log_format",
	"workers":    "worker_count",
}

// Load resolves configuration from defaults, an optional YAML file,
// DOCSTRUCT_* environment variables and flags, in increasing priority.
// An empty cfgFile searches ./docstruct.yaml and $HOME/.docstruct.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("structure_type", structure.KindTree.String())
	v.SetDefault("boundary_chars", annotation.DefaultBoundary)
	v.SetDefault("output_format", string(render.FormatJSON))
	v.SetDefault("log_format", "json")
	v.SetDefault("worker_count", 4)
	v.SetDefault("max_queue_size", 100)
	v.SetDefault("max_input_bytes", 52428800) // 50MB
	v.SetDefault("validate_schema", true)
	v.SetDefault("job_ttl", time.Hour)
	v.SetDefault("stats_window", time.Hour)
	v.SetDefault("chunk_size", 1500)
	v.SetDefault("chunk_overlap", 200)

	v.SetEnvPrefix("DOCSTRUCT")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("docstruct")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.docstruct")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		StructureType:  v.GetString("structure_type"),
		BoundaryChars:  v.GetString("boundary_chars"),
		OutputFormat:   v.GetString("output_format"),
		LogFormat:      v.GetString("log_format"),
		WorkerCount:    v.GetInt("worker_count"),
		MaxQueueSize:   v.GetInt("max_queue_size"),
		MaxInputBytes:  v.GetInt64("max_input_bytes"),
		ValidateSchema: v.GetBool("validate_schema"),
		JobTTL:         v.GetDuration("job_ttl"),
		StatsWindow:    v.GetDuration("stats_window"),
		ChunkSize:      v.GetInt("chunk_size"),
		ChunkOverlap:   v.GetInt("chunk_overlap"),
		ConfigFile:     v.ConfigFileUsed(),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := structure.ParseKind(c.StructureType, structure.KindTree); err != nil {
		return err
	}
	if _, err := render.ParseFormat(c.OutputFormat); err != nil {
		return err
	}
	if c.BoundaryChars == "" {
		return fmt.Errorf("boundary_chars must not be empty")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}
	return nil
}

// Merger returns the annotation merger for the configured boundary class.
func (c Config) Merger() annotation.Merger {
	return annotation.NewMerger(c.BoundaryChars)
}

// Dispatcher returns a dispatcher for the configured default structure.
func (c Config) Dispatcher() (structure.Dispatcher, error) {
	return structure.NewDispatcher(c.StructureType, c.Merger())
}
