package repository

import (
	"context"

	"github.com/alexanderramin/tally/internal/llm"
)

type countingGenerator struct {
	text  string
	calls int
}

func (g *countingGenerator) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	g.calls++
	return &llm.GenerateResponse{Text: g.text}, nil
}
