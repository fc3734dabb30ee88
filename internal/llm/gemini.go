package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient on the Google GenAI SDK.
type geminiClient struct {
	caller
	client *genai.Client
}

// NewGeminiClient creates an LLMClient for the Gemini API. cfg.Endpoint, when
// set, replaces the API base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := cfg.EndpointURL(); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{
		caller: caller{cfg: cfg, provider: ProviderGemini, observer: observer},
		client: client,
	}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.taskParams(req)

	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temp)),
		MaxOutputTokens: int32(maxTok),
	}
	if req.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}

	model := c.cfg.ModelName()
	return c.run(ctx, req.Task, func(ctx context.Context) (string, string, error) {
		resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(req.UserPrompt), gc)
		if err != nil {
			return "", "", asStatusError(err)
		}
		return resp.Text(), resp.ModelVersion, nil
	})
}

// asStatusError maps SDK API errors onto statusError so the retry policy can
// tell 5xx answers from permanent ones.
func asStatusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &statusError{Code: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &statusError{Code: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}
