package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mimircode/mimircode/pkg/types"
)

// Environment variable overrides, applied after file values.
const (
	EnvEndpoint   = "MIMIRCODE_ENDPOINT"
	EnvModel      = "MIMIRCODE_MODEL"
	EnvChunkSize  = "MIMIRCODE_CHUNK_SIZE"
	EnvDBPath     = "MIMIRCODE_DB_PATH"
	EnvListenAddr = "MIMIRCODE_LISTEN_ADDR"
)

// Decoding holds the sampling parameters for one class of inference call.
type Decoding struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Tasks carries per-task decoding parameters. The deep-documentation
// examples facet runs hotter than the other two facets.
type Tasks struct {
	Documentation  Decoding `yaml:"documentation"`
	Deep           Decoding `yaml:"deep_documentation"`
	DeepExamples   Decoding `yaml:"deep_examples"`
	Analysis       Decoding `yaml:"analysis"`
	ProjectSummary Decoding `yaml:"project_summary"`
}

// Config is the explicit, per-run configuration value passed into each
// component's constructor. Nothing reads process-wide state after Load.
type Config struct {
	Endpoint     string   `yaml:"endpoint"`
	Model        string   `yaml:"model"`
	ChunkSize    int      `yaml:"chunk_size"`
	DeepChunking bool     `yaml:"deep_chunking"`
	ExcludeDirs  []string `yaml:"exclude_dirs"`
	OutputDir    string   `yaml:"output_dir"`
	TempDir      string   `yaml:"temp_dir"`
	ListenAddr   string   `yaml:"listen_addr"`
	DBPath       string   `yaml:"db_path"`
	CacheSize    int      `yaml:"cache_size"`
	Tasks        Tasks    `yaml:"tasks"`
}

// Default returns the built-in configuration: a local Ollama endpoint and
// the sampling parameters each task has always used.
func Default() *Config {
	return &Config{
		Endpoint:     "http://localhost:11434/api/generate",
		Model:        "llama3",
		ChunkSize:    6000,
		DeepChunking: false,
		ExcludeDirs:  []string{".git", "node_modules", "vendor", "__pycache__", ".venv", "bin", "obj", "dist"},
		OutputDir:    "generated_docs",
		TempDir:      "temp",
		ListenAddr:   ":8080",
		DBPath:       "mimircode.db",
		CacheSize:    1024,
		Tasks: Tasks{
			Documentation:  Decoding{Temperature: 0.2, MaxTokens: 1024},
			Deep:           Decoding{Temperature: 0.2, MaxTokens: 1024},
			DeepExamples:   Decoding{Temperature: 0.3, MaxTokens: 1024},
			Analysis:       Decoding{Temperature: 0.3, MaxTokens: 2048},
			ProjectSummary: Decoding{Temperature: 0.3, MaxTokens: 2048},
		},
	}
}

// Load builds a Config from defaults, an optional YAML file and
// environment overrides, in that order. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(EnvChunkSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %w", EnvChunkSize, err)
		}
		cfg.ChunkSize = n
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.ListenAddr = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the pipeline depends on.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.ChunkSize <= 0 {
		return errors.New("chunk_size must be positive")
	}
	return nil
}

// DecodingFor returns the sampling parameters for per-chunk calls of the
// given task. Deep-documentation facets pick their own parameters via
// Tasks.Deep and Tasks.DeepExamples.
func (c *Config) DecodingFor(task types.Task) Decoding {
	switch task {
	case types.TaskAnalysis:
		return c.Tasks.Analysis
	case types.TaskDeepDocumentation:
		return c.Tasks.Deep
	default:
		return c.Tasks.Documentation
	}
}
