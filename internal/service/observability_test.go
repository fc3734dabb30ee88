package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogUseCaseObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "build-report",
		Duration: 1500 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"filename": "week.csv"},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "build-report",
		Err:  errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 2)

	ok := entries[0]
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	assert.Equal(t, "service_use_case", ok.Message)
	fields := ok.ContextMap()
	assert.Equal(t, "build-report", fields["use_case"])
	assert.Equal(t, int64(1500), fields["duration_ms"])
	assert.Equal(t, "week.csv", fields["filename"])

	failed := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	assert.Equal(t, "boom", failed.ContextMap()["error"])
}

func TestNewLogUseCaseObserver_NilLogger(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.Equal(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	rec := &recordingObserver{}
	assert.Same(t, rec, useCaseObserverOrNoop([]UseCaseObserver{nil, rec}))
}
