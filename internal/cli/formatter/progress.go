package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampShare(share float64, width int) (float64, int) {
	share = min(max(share, 0), 1)
	return share, max(width, 2)
}

func blocks(share float64, width int) (filled, empty string) {
	n := min(int(share*float64(width)+0.5), width)
	return strings.Repeat(filledBlock, n), strings.Repeat(emptyBlock, width-n)
}

// RenderShareBar renders a share of the total like [████░░░░]  45.0%.
func RenderShareBar(share float64, width int) string {
	share, width = clampShare(share, width)
	filled, empty := blocks(share, width)
	return fmt.Sprintf("[%s%s] %5.1f%%", StyleGreen.Render(filled), StyleDim.Render(empty), share*100)
}

// RenderCompactBar renders a bar without brackets or percentage, for use in
// dense tables. When dim is true the bar is rendered without color.
func RenderCompactBar(share float64, width int, dim bool) string {
	share, width = clampShare(share, width)
	filled, empty := blocks(share, width)
	if dim {
		return filled + empty
	}
	return StyleBlue.Render(filled) + StyleDim.Render(empty)
}
