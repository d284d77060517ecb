package answer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wildscope/wildscope/internal/textgen"
)

// Completer obtains one completion from a named model. Implemented by
// *textgen.Client; tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, model, prompt string, p textgen.Params) (string, error)
}

const (
	// NoAnswerText is the sentinel returned when generation produced no
	// usable content. Distinct from ErrorText, which signals a systemic
	// failure of the generation backend.
	NoAnswerText = "No answer generated. Please try rephrasing your question."

	// ErrorText is the fixed string a task resolves to when the backend
	// fails terminally for that task.
	ErrorText = "Error generating response from AI model."

	// defaultRetries is how many attempts one fallback step gets for
	// empty completions and model-loading conditions.
	defaultRetries = 3

	// defaultRetryDelay is the fixed sleep between attempts. The spacing
	// is deliberate backoff for a warming model; do not remove it.
	defaultRetryDelay = 5 * time.Second

	// maxParallelTasks bounds concurrent generation calls per request.
	maxParallelTasks = 4
)

// personaPreamble fronts every generation prompt.
const personaPreamble = "You are an AI assistant trained in advanced scientific research, " +
	"specializing in wildlife, biodiversity, and conservation science in India. " +
	"Provide well-structured, evidence-based, and scientifically rigorous answers " +
	"focused on India's ecological and environmental landscape. " +
	"Avoid vague statements or unsupported claims; if uncertainty exists, clarify " +
	"the limitations of available data. " +
	"Write in a formal, scientific tone that remains accessible to an educated audience.\n\n"

// TaskResult is one generated section, keyed by its task.
// A Generate result slice preserves plan order.
type TaskResult struct {
	Task string
	Text string
}

// fallbackStep is one tier of the model fallback chain.
type fallbackStep struct {
	model    string
	attempts int
}

// OrchestratorConfig contains the required parameters for an Orchestrator.
type OrchestratorConfig struct {
	Completer Completer
	Models    []string // fallback chain: primary first, then smaller models
	Params    textgen.Params
	Logger    *slog.Logger

	Retries int           // attempts per retryable step (0 = default 3)
	Delay   time.Duration // sleep between attempts (0 = default 5s)
}

// Orchestrator resolves a generation plan into per-task text. It is the
// only pipeline component that performs network I/O, and its contract is
// total: every planned task resolves to some string, never a panic or an
// error escaping the per-task boundary.
type Orchestrator struct {
	completer Completer
	steps     []fallbackStep
	params    textgen.Params
	delay     time.Duration
	logger    *slog.Logger

	// sleep is swapped out by tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator creates an Orchestrator. The first model is the primary
// and gets the full retry budget; each fallback model is attempted once.
func NewOrchestrator(cfg OrchestratorConfig) (*Orchestrator, error) {
	if cfg.Completer == nil {
		return nil, errors.New("completer is required")
	}
	if len(cfg.Models) == 0 {
		return nil, errors.New("at least one model is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	steps := make([]fallbackStep, len(cfg.Models))
	for i, m := range cfg.Models {
		attempts := 1
		if i == 0 {
			attempts = retries
		}
		steps[i] = fallbackStep{model: m, attempts: attempts}
	}

	return &Orchestrator{
		completer: cfg.Completer,
		steps:     steps,
		params:    cfg.Params,
		delay:     delay,
		logger:    cfg.Logger,
		sleep:     sleepContext,
	}, nil
}

// Generate resolves every task in the plan, fanning the tasks out
// concurrently. Tasks are independent of one another; only the fallback
// chain within a single task is ordered. The returned slice preserves
// plan order and always has one entry per planned task.
func (o *Orchestrator) Generate(ctx context.Context, plan []Template, query, contextText string) []TaskResult {
	results := make([]TaskResult, len(plan))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTasks)
	for i, tpl := range plan {
		g.Go(func() error {
			prompt := buildPrompt(tpl, query, contextText)
			results[i] = TaskResult{
				Task: tpl.Task,
				Text: o.completeTask(ctx, tpl.Task, prompt),
			}
			return nil
		})
	}
	_ = g.Wait() // task goroutines never return errors

	return results
}

// buildPrompt assembles the full prompt for one task.
func buildPrompt(tpl Template, query, contextText string) string {
	return personaPreamble + fillQuery(tpl.Prompt, query) + "\n\nContext: " + contextText
}

// stepOutcome classifies the result of attempting one fallback step.
type stepOutcome int

const (
	stepDone      stepOutcome = iota // non-empty text obtained
	stepDescend                      // resources exhausted; try next tier
	stepAbort                        // terminal failure for this task
	stepExhausted                    // attempts used up without usable text
)

// completeTask walks the fallback chain for a single task. A hard failure
// of the primary is terminal, but a hard failure of an intermediate
// fallback tier descends to the next tier; only the last tier's failure
// ends the task. Every path resolves to a string; nothing propagates past
// this boundary.
func (o *Orchestrator) completeTask(ctx context.Context, task, prompt string) string {
	for i, step := range o.steps {
		text, outcome := o.attemptStep(ctx, step, prompt)
		switch outcome {
		case stepDone:
			return text
		case stepDescend:
			o.logger.Warn("model resources exhausted, falling back",
				"task", task,
				"model", step.model,
			)
			continue
		case stepAbort:
			if i > 0 && i+1 < len(o.steps) {
				o.logger.Warn("fallback model failed, trying next tier",
					"task", task,
					"model", step.model,
				)
				continue
			}
			o.logger.Error("generation failed for task",
				"task", task,
				"model", step.model,
			)
			return ErrorText
		case stepExhausted:
			o.logger.Warn("no usable completion after retries",
				"task", task,
				"model", step.model,
			)
			return NoAnswerText
		}
	}

	// Fell past the last fallback tier.
	o.logger.Warn("fallback chain exhausted", "task", task)
	return NoAnswerText
}

// attemptStep runs the retry loop for a single fallback step. Empty
// completions and model-loading conditions are retried after the fixed
// delay until the step's attempt budget runs out; resource exhaustion
// descends to the next tier; everything else reports a hard failure for
// completeTask to resolve against the step's chain position.
func (o *Orchestrator) attemptStep(ctx context.Context, step fallbackStep, prompt string) (string, stepOutcome) {
	for attempt := 1; ; attempt++ {
		text, err := o.completer.Complete(ctx, step.model, prompt, o.params)
		switch {
		case err == nil:
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed, stepDone
			}
			o.logger.Debug("empty completion",
				"model", step.model,
				"attempt", attempt,
			)

		case errors.Is(err, textgen.ErrModelLoading):
			o.logger.Debug("model loading, will retry",
				"model", step.model,
				"attempt", attempt,
				"delay", o.delay,
			)

		case errors.Is(err, textgen.ErrResourceExhausted):
			return "", stepDescend

		default:
			o.logger.Warn("inference call failed",
				"model", step.model,
				"error", err,
			)
			return "", stepAbort
		}

		if attempt >= step.attempts {
			return "", stepExhausted
		}
		if err := o.sleep(ctx, o.delay); err != nil {
			return "", stepAbort
		}
	}
}

// sleepContext sleeps for d unless ctx is canceled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
