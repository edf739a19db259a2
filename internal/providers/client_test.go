package providers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"squish/internal/logger"
)

type failingProvider struct{ err error }

func (f failingProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	return GenerateResponse{Text: "partial"}, ProviderInfo{Name: "broken", Model: "m"}, f.err
}

type memoryRecorder struct {
	mu   sync.Mutex
	recs []CallRecord
	err  error
}

func (m *memoryRecorder) RecordCall(ctx context.Context, rec CallRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return m.err
}

func TestClientAbridgeComposesPrompt(t *testing.T) {
	rec := &memoryRecorder{}
	c := NewClient(NewEchoProvider(), logger.Discard(), WithRecorder(rec), WithRunID("run-1"))

	res := c.Abridge(context.Background(), 4, "It was a dark night.")
	require.False(t, res.Failed())
	require.Equal(t, 4, res.Index)
	require.Equal(t, AbridgeInstruction+" It was a dark night.", res.Render())

	require.Len(t, rec.recs, 1)
	require.Equal(t, "run-1", rec.recs[0].RunID)
	require.Equal(t, 4, rec.recs[0].ChunkIndex)
	require.Equal(t, "ok", rec.recs[0].Status)
	require.Equal(t, "echo", rec.recs[0].Provider)
	require.Len(t, rec.recs[0].ChunkHash, 64)
}

func TestClientAbridgeContextRunIDWins(t *testing.T) {
	rec := &memoryRecorder{}
	c := NewClient(NewEchoProvider(), logger.Discard(), WithRecorder(rec), WithRunID("fallback"))

	c.Abridge(ContextWithRunID(context.Background(), "abridge-1"), 0, "a.")
	c.Abridge(ContextWithRunID(context.Background(), "abridge-2"), 0, "b.")
	c.Abridge(context.Background(), 0, "c.")

	require.Len(t, rec.recs, 3)
	require.Equal(t, "abridge-1", rec.recs[0].RunID)
	require.Equal(t, "abridge-2", rec.recs[1].RunID)
	require.Equal(t, "fallback", rec.recs[2].RunID)
}

func TestClientAbridgeFailureRendersEmpty(t *testing.T) {
	rec := &memoryRecorder{err: errors.New("db down")}
	c := NewClient(failingProvider{err: errors.New("dial tcp: connection refused")}, logger.Discard(), WithRecorder(rec))

	res := c.Abridge(context.Background(), 0, "text")
	require.True(t, res.Failed())
	require.Equal(t, "", res.Render())
	require.Equal(t, "failed", rec.recs[0].Status)
	require.Equal(t, string(ErrorTransient), rec.recs[0].ErrorType)
}

func TestClientAbridgeTransportErrorDoesNotBlock(t *testing.T) {
	c := NewClient(NewOllamaProvider("http://127.0.0.1:1", "m", 0), logger.Discard())
	first := c.Abridge(context.Background(), 0, "one.")
	require.True(t, first.Failed())
	require.Empty(t, first.Render())

	second := NewClient(NewEchoProvider(), logger.Discard()).Abridge(context.Background(), 1, "two.")
	require.Equal(t, ComposePrompt("two."), second.Render())
}
