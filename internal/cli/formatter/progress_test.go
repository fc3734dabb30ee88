package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderShareBar(t *testing.T) {
	tests := []struct {
		name       string
		share      float64
		width      int
		wantFilled int
		wantPct    string
	}{
		{"zero", 0, 10, 0, "0.0%"},
		{"half", 0.5, 10, 5, "50.0%"},
		{"full", 1, 10, 10, "100.0%"},
		{"rounds to nearest block", 0.75, 10, 8, "75.0%"},
		{"over 100% clamps", 1.5, 10, 10, "100.0%"},
		{"negative clamps", -0.5, 10, 0, "0.0%"},
		{"tiny width clamps to 2", 0.5, 1, 1, "50.0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderShareBar(tt.share, tt.width))
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
			assert.Equal(t, max(tt.width, 2), strings.Count(got, filledBlock)+strings.Count(got, emptyBlock))
			assert.True(t, strings.HasSuffix(got, tt.wantPct), got)
		})
	}
}

func TestRenderCompactBar(t *testing.T) {
	tests := []struct {
		name  string
		share float64
		width int
		dim   bool
	}{
		{"0% normal", 0.0, 10, false},
		{"50% normal", 0.5, 10, false},
		{"100% normal", 1.0, 10, false},
		{"50% dimmed", 0.5, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderCompactBar(tt.share, tt.width, tt.dim)
			assert.NotEmpty(t, got)
			assert.NotContains(t, got, "[")
			assert.NotContains(t, got, "%")
		})
	}
}

func TestRenderCompactBarBlocks(t *testing.T) {
	assert.Equal(t, strings.Repeat(emptyBlock, 4), RenderCompactBar(0.0, 4, true))
	assert.Equal(t, strings.Repeat(filledBlock, 4), RenderCompactBar(1.0, 4, true))
	assert.Equal(t, filledBlock+filledBlock+emptyBlock+emptyBlock, RenderCompactBar(0.5, 4, true))
}
