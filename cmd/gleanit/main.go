// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/gleanit/ai"
	"github.com/poiesic/gleanit/ai/openai"
	"github.com/poiesic/gleanit/extract/pdf"
	"github.com/poiesic/gleanit/format"
	"github.com/poiesic/gleanit/pipeline"
	"github.com/poiesic/gleanit/storage/badger"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "gleanit",
		Usage: "Persona-driven document excerpt ranking",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Rank document excerpts for a persona and task",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "request",
						Aliases:  []string{"r"},
						Usage:    "Path to the analysis request JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "docs",
						Aliases: []string{"d"},
						Usage:   "Directory containing the PDF documents",
						Value:   ".",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (- for stdout)",
						Value:   "-",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to YAML config file",
						Value:   "gleanit.yaml",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Extraction worker pool size (0 = CPU count)",
					},
					&cli.DurationFlag{
						Name:  "document-timeout",
						Usage: "Per-document extraction timeout",
					},
					&cli.DurationFlag{
						Name:  "overall-deadline",
						Usage: "Soft deadline for the extraction stage (0 disables)",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of excerpts in the result",
					},
					&cli.IntFlag{
						Name:  "per-document-cap",
						Usage: "Maximum excerpts per document (0 disables)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Embedding batch size",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.StringFlag{
						Name:  "formulation-host",
						Usage: "Query formulation service host URL",
					},
					&cli.StringFlag{
						Name:  "formulation-model",
						Usage: "Query formulation model name",
					},
					&cli.StringFlag{
						Name:  "cache-dir",
						Usage: "Embedding vector cache directory (empty disables caching)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	overrideConfig(c, cfg)

	request, err := loadRequest(c.String("request"))
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.Embedder.Host),
		ai.WithEmbeddingModel(cfg.Embedder.Model),
		ai.WithFormulationHost(cfg.Formulation.Host),
		ai.WithFormulationModel(cfg.Formulation.Model),
		ai.WithBatchSize(cfg.BatchSize),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("creating AI provider: %w", err)
	}
	defer provider.Close()

	opts := []pipeline.Option{
		pipeline.WithTopK(cfg.TopK),
		pipeline.WithOverallDeadline(cfg.overallDeadline()),
		pipeline.WithDocumentTimeout(cfg.documentTimeout()),
		pipeline.WithPerDocumentCap(cfg.PerDocumentCap),
		pipeline.WithBatchSize(cfg.BatchSize),
	}
	if cfg.Workers > 0 {
		opts = append(opts, pipeline.WithPoolSize(cfg.Workers))
	}
	if cfg.CacheDir != "" {
		cache, err := badger.Open(cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("opening vector cache: %w", err)
		}
		defer cache.Close()
		opts = append(opts, pipeline.WithVectorCache(cache, cfg.Embedder.Model))
	}

	orchestrator, err := pipeline.New(provider, pdf.NewExtractor(c.String("docs")), opts...)
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}
	defer orchestrator.Release()

	started := time.Now()
	result, err := orchestrator.Run(ctx, request)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		// Degraded-to-failed runs still write their report before exiting non-zero.
		slog.Error("pipeline failed", "err", err, "elapsed", time.Since(started))
	}

	data, ferr := format.Marshal(result)
	if ferr != nil {
		return fmt.Errorf("formatting result: %w", ferr)
	}

	if path := c.String("output"); path != "-" {
		if werr := os.WriteFile(path, append(data, '\n'), 0o644); werr != nil {
			return fmt.Errorf("writing output: %w", werr)
		}
	} else {
		fmt.Println(string(data))
	}

	return err
}

// overrideConfig applies explicitly set command-line flags on top of the
// config file.
func overrideConfig(c *cli.Context, cfg *appConfig) {
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("document-timeout") {
		cfg.DocumentTimeoutSecs = int(c.Duration("document-timeout").Seconds())
	}
	if c.IsSet("overall-deadline") {
		cfg.OverallDeadlineSecs = int(c.Duration("overall-deadline").Seconds())
	}
	if c.IsSet("top-k") {
		cfg.TopK = c.Int("top-k")
	}
	if c.IsSet("per-document-cap") {
		cfg.PerDocumentCap = c.Int("per-document-cap")
	}
	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedder.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedder.Model = c.String("embedding-model")
	}
	if c.IsSet("formulation-host") {
		cfg.Formulation.Host = c.String("formulation-host")
	}
	if c.IsSet("formulation-model") {
		cfg.Formulation.Model = c.String("formulation-model")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
}
