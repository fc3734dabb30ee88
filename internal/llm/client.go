package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	JSON         bool     // ask the backend for a JSON response body
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Provider  Provider
	Model     string
	Attempts  int
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// NewClient builds the client for cfg.Provider.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

// statusError is a non-2xx answer from a model server.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Code, strings.TrimSpace(e.Body))
}

// attemptFunc performs one request and returns the generated text and the
// model that served it.
type attemptFunc func(ctx context.Context) (text, model string, err error)

// caller runs attempts with the shared timeout, retry and observer policy.
type caller struct {
	cfg      LLMConfig
	provider Provider
	observer Observer
}

func (c caller) taskParams(req GenerateRequest) (float64, int) {
	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

// run retries transient failures (connection errors and 5xx answers) up to
// MaxRetries times, pausing RetryDelay between attempts. The whole loop shares
// one task deadline.
func (c caller) run(ctx context.Context, task TaskType, attempt attemptFunc) (*GenerateResponse, error) {
	start := time.Now()
	model := c.cfg.ModelName()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TaskTimeout(task))
	defer cancel()

	var lastErr error
	maxAttempts := 1 + c.cfg.MaxRetries
	attempts := 0

	for attempts < maxAttempts {
		attempts++
		text, served, err := attempt(ctx)
		if err == nil && strings.TrimSpace(text) == "" {
			err = fmt.Errorf("%w: empty response", ErrInvalidOutput)
		}
		if err == nil {
			if served != "" {
				model = served
			}
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      task,
				Provider:  c.provider,
				Model:     model,
				Attempts:  attempts,
				LatencyMs: latency,
				Success:   true,
			})
			return &GenerateResponse{
				Text:      text,
				Provider:  c.provider,
				Model:     model,
				Attempts:  attempts,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout or permanent failures.
		if ctx.Err() != nil || !isTransient(err) || attempts == maxAttempts {
			break
		}
		if !sleepCtx(ctx, c.cfg.RetryDelay()) {
			break
		}
	}

	err := classify(ctx, lastErr, attempts)
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Provider:  c.provider,
		Model:     model,
		Attempts:  attempts,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(err),
	})
	return nil, err
}

func classify(ctx context.Context, err error, attempts int) error {
	switch {
	case ctx.Err() != nil:
		return ErrTimeout
	case errors.Is(err, ErrInvalidOutput):
		return err
	case isConnectionError(err):
		return ErrUnavailable
	case isTransient(err) && attempts > 1:
		return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, attempts, err)
	default:
		return fmt.Errorf("llm request failed: %w", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func isTransient(err error) bool {
	if isConnectionError(err) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
