package main

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// embedderConfig configures the OpenAI-compatible embedding service.
type embedderConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// formulationConfig configures the query formulation LLM.
type formulationConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// appConfig is the root configuration file structure. Every field has a
// default; command-line flags override file values.
type appConfig struct {
	Workers             int               `yaml:"workers"`
	DocumentTimeoutSecs int               `yaml:"document_timeout_secs"`
	OverallDeadlineSecs int               `yaml:"overall_deadline_secs"`
	TopK                int               `yaml:"top_k"`
	PerDocumentCap      int               `yaml:"per_document_cap"`
	BatchSize           int               `yaml:"batch_size"`
	CacheDir            string            `yaml:"cache_dir"`
	Embedder            embedderConfig    `yaml:"embedder"`
	Formulation         formulationConfig `yaml:"formulation"`
}

func defaultConfig() *appConfig {
	return &appConfig{
		Workers:             0, // coordinator picks from CPU count
		DocumentTimeoutSecs: 15,
		OverallDeadlineSecs: 10,
		TopK:                5,
		PerDocumentCap:      3,
		BatchSize:           64,
		Embedder: embedderConfig{
			Host:  "http://localhost:11434/v1",
			Model: "all-minilm",
		},
		Formulation: formulationConfig{
			Host:  "http://localhost:11434/v1",
			Model: "qwen2.5:3b",
		},
	}
}

// loadConfig reads a config from path. A missing file returns defaults.
func loadConfig(path string) (*appConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// applyConfigDefaults backfills fields a partial config file left zero.
func applyConfigDefaults(cfg *appConfig) {
	def := defaultConfig()
	if cfg.DocumentTimeoutSecs <= 0 {
		cfg.DocumentTimeoutSecs = def.DocumentTimeoutSecs
	}
	if cfg.OverallDeadlineSecs < 0 {
		cfg.OverallDeadlineSecs = def.OverallDeadlineSecs
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.PerDocumentCap < 0 {
		cfg.PerDocumentCap = def.PerDocumentCap
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Embedder.Host == "" {
		cfg.Embedder.Host = def.Embedder.Host
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = def.Embedder.Model
	}
	if cfg.Formulation.Host == "" {
		cfg.Formulation.Host = def.Formulation.Host
	}
	if cfg.Formulation.Model == "" {
		cfg.Formulation.Model = def.Formulation.Model
	}
}

func (c *appConfig) documentTimeout() time.Duration {
	return time.Duration(c.DocumentTimeoutSecs) * time.Second
}

func (c *appConfig) overallDeadline() time.Duration {
	return time.Duration(c.OverallDeadlineSecs) * time.Second
}
