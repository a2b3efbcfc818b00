package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"deckgen/internal/analyzer"
	"deckgen/internal/config"
	"deckgen/internal/imagegen"
	"deckgen/internal/llm"
	"deckgen/internal/logs"
	"deckgen/internal/output"
	"deckgen/internal/pipeline"
	"deckgen/internal/theme"
)

// app holds the wiring shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *theme.Registry
	pipeline *pipeline.Pipeline
	closers  []func() error
}

func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logs.New(logs.Options{Level: cfg.LogLevel, File: cfg.LogFile, Writer: logOut})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	if a.registry, err = theme.DefaultRegistry(); err != nil {
		a.close()
		return nil, fmt.Errorf("load themes: %w", err)
	}
	classifier, err := a.classifier(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	images, err := a.images(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.pipeline, err = pipeline.New(pipeline.Options{
		Registry:     a.registry,
		Classifier:   classifier,
		Images:       images,
		ImageTimeout: cfg.Image.Timeout,
		Logger:       logger,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) classifier(ctx context.Context) (analyzer.Classifier, error) {
	if a.cfg.Classifier != config.ClassifierGemini {
		return analyzer.RuleClassifier{}, nil
	}
	if a.cfg.APIKey == "" {
		return nil, errors.New("DECKGEN_CLASSIFIER=gemini requires GEMINI_API_KEY")
	}
	cli, err := llm.NewGeminiClient(ctx, a.cfg.APIKey, a.cfg.LLMModel)
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}
	wrapped := llm.Wrap(cli,
		llm.WithLogging(a.logger),
		llm.WithHooks(),
		llm.RateLimit(llm.NewLimiter(2, 1)),
		llm.Retry(3, 500*time.Millisecond),
	)
	a.closers = append(a.closers, wrapped.Close)
	return &analyzer.LLMClassifier{LLM: wrapped}, nil
}

// images returns nil when image generation is unavailable; the image stage
// then passes decks through untouched.
func (a *app) images(ctx context.Context) (imagegen.Capability, error) {
	c := a.cfg.Image
	if a.cfg.APIKey == "" {
		return nil, nil
	}
	backend, err := imagegen.NewGeminiCapability(ctx, a.cfg.APIKey, c.Model)
	if err != nil {
		return nil, fmt.Errorf("init image backend: %w", err)
	}
	return imagegen.Wrap(backend,
		imagegen.Cached(c.Cache),
		imagegen.WithLogging(a.logger),
		imagegen.RateLimit(llm.NewLimiter(c.RPS, c.Burst)),
		imagegen.Retry(c.Attempts, time.Second),
	), nil
}

// sink stores decks in S3 when an endpoint is configured, else under dir.
func (a *app) sink(dir string) (output.Sink, error) {
	s3 := a.cfg.Output.S3
	if s3.Enabled {
		return output.NewS3Sink(output.S3Config{
			Endpoint:  s3.Endpoint,
			Region:    s3.Region,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			Bucket:    s3.Bucket,
			UseSSL:    s3.UseSSL,
		})
	}
	if dir == "" {
		dir = a.cfg.Output.Dir
	}
	return output.FileSink{Dir: dir}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("close", "error", err)
		}
	}
	a.closers = nil
}
