// Package config loads pipeline settings from defaults, an optional
// config file, environment variables (prefix TELUGUTOK), and CLI flags,
// in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Collect CollectConfig `mapstructure:"collect"`
	Train   TrainConfig   `mapstructure:"train"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Publish PublishConfig `mapstructure:"publish"`
	Log     LogConfig     `mapstructure:"log"`
}

type CollectConfig struct {
	TargetDocuments int           `mapstructure:"target_documents"`
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ProgressEvery   int           `mapstructure:"progress_every"`
	ChunkThreshold  int           `mapstructure:"chunk_threshold"`

	// Feeds are additional RSS/Atom sources as "name=url" entries,
	// collected alongside the built-in sources.
	Feeds []string `mapstructure:"feeds"`
}

type TrainConfig struct {
	VocabSize     int      `mapstructure:"vocab_size"`
	MinFrequency  int      `mapstructure:"min_frequency"`
	SpecialTokens []string `mapstructure:"special_tokens"`
	ModelType     string   `mapstructure:"model_type"`
}

type PathsConfig struct {
	DatasetPath string `mapstructure:"dataset_path"`
	ModelDir    string `mapstructure:"model_dir"`
}

// ArchiveConfig enables the optional side sinks when set.
type ArchiveConfig struct {
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
}

type PublishConfig struct {
	SupabaseURL string `mapstructure:"supabase_url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func DefaultConfig() Config {
	return Config{
		Collect: CollectConfig{
			TargetDocuments: 3000,
			MaxConcurrent:   50,
			Timeout:         10 * time.Minute,
			ProgressEvery:   10,
			ChunkThreshold:  1000,
		},
		Train: TrainConfig{
			VocabSize:     5000,
			MinFrequency:  2,
			SpecialTokens: []string{"<s>", "</s>", "<unk>", "<pad>"},
			ModelType:     "bpe",
		},
		Paths: PathsConfig{
			DatasetPath: "telugu_dataset.json",
			ModelDir:    "telugu_tokenizer",
		},
		Archive: ArchiveConfig{
			MongoDatabase:   "telugu",
			MongoCollection: "documents",
		},
		Log: LogConfig{Level: "info"},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.Int("collect-target-documents", defaults.Collect.TargetDocuments, "Documents to collect before stopping")
	fs.Int("collect-max-concurrent", defaults.Collect.MaxConcurrent, "Maximum concurrent outbound fetches")
	fs.Duration("collect-timeout", defaults.Collect.Timeout, "Wall-clock limit for the whole fetch phase")
	fs.Int("collect-progress-every", defaults.Collect.ProgressEvery, "Log progress after this many accepted documents")
	fs.Int("collect-chunk-threshold", defaults.Collect.ChunkThreshold, "Minimum corpus chunk length in characters")
	fs.StringSlice("collect-feeds", defaults.Collect.Feeds, "Additional RSS/Atom sources as name=url entries")
	fs.Int("train-vocab-size", defaults.Train.VocabSize, "Requested vocabulary size (minimum 5000)")
	fs.Int("train-min-frequency", defaults.Train.MinFrequency, "Minimum pair frequency for a merge")
	fs.String("paths-dataset-path", defaults.Paths.DatasetPath, "Dataset file path")
	fs.String("paths-model-dir", defaults.Paths.ModelDir, "Model artifact directory")
	fs.String("archive-mongo-uri", defaults.Archive.MongoURI, "MongoDB URI for the document archive (empty disables)")
	fs.String("archive-mongo-database", defaults.Archive.MongoDatabase, "MongoDB database for the document archive")
	fs.String("archive-mongo-collection", defaults.Archive.MongoCollection, "MongoDB collection for the document archive")
	fs.String("archive-postgres-dsn", defaults.Archive.PostgresDSN, "Postgres DSN for the run ledger (empty disables)")
	fs.String("publish-supabase-url", defaults.Publish.SupabaseURL, "Supabase project URL for publishing")
	fs.String("log-level", defaults.Log.Level, "Log level (debug|info|warn|error)")
}

type LoadOptions struct {
	Flags      *pflag.FlagSet
	ConfigFile string
	Defaults   Config
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("TELUGUTOK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("telugutok")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("collect.target_documents", c.Collect.TargetDocuments)
	v.SetDefault("collect.max_concurrent", c.Collect.MaxConcurrent)
	v.SetDefault("collect.timeout", c.Collect.Timeout)
	v.SetDefault("collect.progress_every", c.Collect.ProgressEvery)
	v.SetDefault("collect.chunk_threshold", c.Collect.ChunkThreshold)
	v.SetDefault("collect.feeds", c.Collect.Feeds)
	v.SetDefault("train.vocab_size", c.Train.VocabSize)
	v.SetDefault("train.min_frequency", c.Train.MinFrequency)
	v.SetDefault("train.special_tokens", c.Train.SpecialTokens)
	v.SetDefault("train.model_type", c.Train.ModelType)
	v.SetDefault("paths.dataset_path", c.Paths.DatasetPath)
	v.SetDefault("paths.model_dir", c.Paths.ModelDir)
	v.SetDefault("archive.mongo_uri", c.Archive.MongoURI)
	v.SetDefault("archive.mongo_database", c.Archive.MongoDatabase)
	v.SetDefault("archive.mongo_collection", c.Archive.MongoCollection)
	v.SetDefault("archive.postgres_dsn", c.Archive.PostgresDSN)
	v.SetDefault("publish.supabase_url", c.Publish.SupabaseURL)
	v.SetDefault("log.level", c.Log.Level)
}

// bindFlags maps dashed flag names onto the dotted config keys.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"collect.target_documents": "collect-target-documents",
		"collect.max_concurrent":   "collect-max-concurrent",
		"collect.timeout":          "collect-timeout",
		"collect.progress_every":   "collect-progress-every",
		"collect.chunk_threshold":  "collect-chunk-threshold",
		"collect.feeds":            "collect-feeds",
		"train.vocab_size":         "train-vocab-size",
		"train.min_frequency":      "train-min-frequency",
		"paths.dataset_path":       "paths-dataset-path",
		"paths.model_dir":          "paths-model-dir",
		"archive.mongo_uri":        "archive-mongo-uri",
		"archive.mongo_database":   "archive-mongo-database",
		"archive.mongo_collection": "archive-mongo-collection",
		"archive.postgres_dsn":     "archive-postgres-dsn",
		"publish.supabase_url":     "publish-supabase-url",
		"log.level":                "log-level",
	}
	for key, flag := range bindings {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}
