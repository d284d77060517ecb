package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/wildscope/wildscope/internal/answer"
	"github.com/wildscope/wildscope/internal/config"
	"github.com/wildscope/wildscope/internal/log"
	"github.com/wildscope/wildscope/internal/textgen"
)

// buildAnswerService wires the completion client and answer pipeline from
// configuration. Shared by the serve and ask commands.
func buildAnswerService(cfg *config.Config, logger log.Logger) (*answer.Service, error) {
	client, err := textgen.NewClient(textgen.Config{
		BaseURL: cfg.Inference.BaseURL,
		APIKey:  cfg.Inference.APIKey,
		Logger:  logger.With("component", "textgen"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating inference client: %w", err)
	}

	svc, err := answer.NewService(answer.Config{
		Completer: client,
		Models:    cfg.Inference.Models(),
		Logger:    logger.With("component", "answer"),
		Params: textgen.Params{
			MaxNewTokens: cfg.Generation.MaxNewTokens,
			Temperature:  cfg.Generation.Temperature,
			Sample:       cfg.Generation.Sample,
		},
		Retries: cfg.Inference.Retries,
		Delay:   time.Duration(cfg.Inference.DelaySeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating answer service: %w", err)
	}
	return svc, nil
}

// loadConfig loads and validates configuration and builds the root logger.
func loadConfig() (*config.Config, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validating config: %w", err)
	}

	logger := log.New(log.Config{
		Level: cfg.SlogLevel(),
		JSON:  cfg.Log.JSON,
	})
	slog.SetDefault(logger)

	return cfg, logger, nil
}
