package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner draws an animated status line on w until stopped. It shares its
// frames with the dashboard's bubbles spinner.
type Spinner struct {
	w       io.Writer
	message string
	style   spinner.Spinner

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewSpinner returns a stopped spinner that will draw on w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, message: message, style: spinner.Dot}
}

// Start animates until Stop is called.
func (s *Spinner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.style.FPS)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			glyph := s.style.Frames[frame%len(s.style.Frames)]
			fmt.Fprintf(s.w, "\r  %s %s", StylePurple.Render(glyph), Dim(s.message))
			select {
			case <-ctx.Done():
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop clears the line and waits for the animation to end. Extra calls,
// and calls on a spinner that never started, do nothing.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
	})
}

// StartSpinner starts a spinner on w and returns its Stop.
func StartSpinner(w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start()
	return s.Stop
}
