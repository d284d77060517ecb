package answer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wildscope/wildscope/internal/textgen"
)

// Config contains the required parameters for a Service.
type Config struct {
	Completer Completer
	Models    []string
	Logger    *slog.Logger

	Params  textgen.Params
	Retries int
	Delay   time.Duration
}

// Service runs the full pipeline for one query: classification and
// context extraction feed the planner and orchestrator, and the assembler
// renders the final answer. Stateless; safe for concurrent use.
type Service struct {
	orch   *Orchestrator
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	orch, err := NewOrchestrator(OrchestratorConfig{
		Completer: cfg.Completer,
		Models:    cfg.Models,
		Params:    cfg.Params,
		Logger:    cfg.Logger,
		Retries:   cfg.Retries,
		Delay:     cfg.Delay,
	})
	if err != nil {
		return nil, err
	}

	return &Service{orch: orch, logger: cfg.Logger}, nil
}

// Answer resolves a query against its chat history into one structured
// answer. The result is always a string for a non-empty plan; in the
// worst case every section carries the no-answer sentinel or the backend
// error text.
func (s *Service) Answer(ctx context.Context, query string, history []Message) string {
	start := time.Now()

	matched := Classify(query)
	plan := Plan(matched)
	contextText := ExtractContext(query, history)

	s.logger.Debug("answer pipeline planned",
		"types", matched,
		"tasks", len(plan),
		"context_len", len(contextText),
	)

	results := s.orch.Generate(ctx, plan, query, contextText)
	answer := Assemble(results, matched)

	s.logger.Info("answer generated",
		"types", matched,
		"tasks", len(plan),
		"duration", time.Since(start),
	)
	return answer
}
