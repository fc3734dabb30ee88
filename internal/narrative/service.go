package narrative

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/llm"
)

// Generator is the slice of llm.LLMClient the narrative needs.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

// Input is what a narrative is written about.
type Input struct {
	Filename string
	Summary  domain.Summary
	Table    *domain.Table
}

// Options configures a Service.
type Options struct {
	Provider string
	Model    string
	Cache    Cache // nil disables caching
	Logger   *zap.Logger
	Now      func() time.Time

	// Timeout bounds one shared model call, independent of the callers
	// waiting on it. Zero means the default narrative task timeout.
	Timeout time.Duration
}

// Service writes narratives through a Generator, caching results and
// collapsing concurrent requests for the same table.
type Service struct {
	gen      Generator
	provider string
	model    string
	cache    Cache
	logger   *zap.Logger
	now      func() time.Time
	timeout  time.Duration
	group    singleflight.Group
}

// NewService creates a narrative service backed by gen.
func NewService(gen Generator, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Timeout <= 0 {
		opts.Timeout = llm.DefaultConfig().TaskTimeout(llm.TaskNarrative)
	}
	return &Service{
		gen:      gen,
		provider: opts.Provider,
		model:    opts.Model,
		cache:    opts.Cache,
		logger:   opts.Logger,
		now:      opts.Now,
		timeout:  opts.Timeout,
	}
}

// Narrate returns a narrative for in. Every failure, including timeouts and
// cancellation, comes back as *ExternalServiceError.
func (s *Service) Narrate(ctx context.Context, in Input) (*domain.NarrativeReport, error) {
	key := ContextKey(s.provider, s.model, in.Filename, in.Table)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("narrative cache read failed", zap.String("key", key[:12]), zap.Error(err))
		} else if ok {
			out := *cached
			out.Cached = true
			return &out, nil
		}
	}

	// The call is shared, so one caller giving up must not cancel it for the
	// others. Each caller still stops waiting when its own ctx is done.
	ch := s.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.generate(callCtx, key, in)
	})
	select {
	case <-ctx.Done():
		return nil, &ExternalServiceError{Op: "generate", Provider: s.provider, Err: fmt.Errorf("%w: %v", llm.ErrTimeout, ctx.Err())}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		out := *res.Val.(*domain.NarrativeReport)
		return &out, nil
	}
}

// generate runs one model call and caches the result.
func (s *Service) generate(ctx context.Context, key string, in Input) (*domain.NarrativeReport, error) {
	prompt, err := buildUserPrompt(in)
	if err != nil {
		return nil, &ExternalServiceError{Op: "generate", Provider: s.provider, Err: err}
	}

	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskNarrative,
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		JSON:         true,
	})
	if err != nil {
		return nil, &ExternalServiceError{Op: "generate", Provider: s.provider, Err: err}
	}

	ans, err := llm.ExtractJSON(resp.Text, validateAnswer)
	if err != nil {
		return nil, &ExternalServiceError{Op: "decode", Provider: s.provider, Err: err}
	}

	model := resp.Model
	if model == "" {
		model = s.model
	}
	report := &domain.NarrativeReport{
		Headline:    ans.Headline,
		Markdown:    ans.ActivitiesSummary,
		Provider:    s.provider,
		Model:       model,
		ContextKey:  key,
		GeneratedAt: s.now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, report); err != nil {
			s.logger.Warn("narrative cache write failed", zap.String("key", key[:12]), zap.Error(err))
		}
	}
	return report, nil
}
