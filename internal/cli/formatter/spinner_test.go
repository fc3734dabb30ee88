package formatter

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestSpinner_DrawsAndClears(t *testing.T) {
	var buf syncBuffer
	stop := StartSpinner(&buf, "writing summary...")
	stop()
	stop()

	out := buf.String()
	assert.Contains(t, stripANSI(out), "writing summary...")
	assert.Contains(t, out, "\r\033[K")
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	s := NewSpinner(&bytes.Buffer{}, "idle")
	s.Stop()
}
