package providers

import (
	"context"
	"time"

	charmlog "github.com/charmbracelet/log"

	"squish/internal/util"
)

// Result is the outcome of one chunk: generated text, or the reason it failed.
type Result struct {
	Index    int
	Text     string
	Err      error
	Provider ProviderInfo
	Duration time.Duration
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Render is what goes into the output file: the text, or nothing for a failed chunk.
func (r Result) Render() string {
	if r.Err != nil {
		return ""
	}
	return r.Text
}

type CallRecord struct {
	RunID      string
	ChunkIndex int
	ChunkHash  string
	Provider   string
	Model      string
	Status     string
	ErrorType  string
	Duration   time.Duration
}

type CallRecorder interface {
	RecordCall(ctx context.Context, rec CallRecord) error
}

type ClientOption func(*Client)

func WithRecorder(r CallRecorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

func WithRunID(id string) ClientOption {
	return func(c *Client) { c.runID = id }
}

type runIDKey struct{}

// ContextWithRunID tags calls made with ctx with a run ID that takes
// precedence over the one given to NewClient.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func (c *Client) runIDFor(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return id
	}
	return c.runID
}

// Client abridges single chunks. Abridge never fails; backend errors are
// logged and carried in the Result.
type Client struct {
	provider LLMProvider
	log      *charmlog.Logger
	runID    string
	recorder CallRecorder
}

func NewClient(provider LLMProvider, logger *charmlog.Logger, opts ...ClientOption) *Client {
	c := &Client{provider: provider, log: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Abridge(ctx context.Context, index int, chunk string) Result {
	start := time.Now()
	resp, info, err := c.provider.Generate(ctx, GenerateRequest{Prompt: ComposePrompt(chunk)})
	res := Result{
		Index:    index,
		Text:     resp.Text,
		Err:      err,
		Provider: info,
		Duration: time.Since(start),
	}
	if err != nil {
		c.log.Error("abridge chunk failed",
			"chunk", index,
			"provider", info.Name,
			"error_type", ClassifyError(err),
			"err", err,
			"text", util.Preview(chunk, 60),
		)
	} else {
		c.log.Debug("abridged chunk", "chunk", index, "provider", info.Name, "took", res.Duration.Round(time.Millisecond))
	}
	c.record(ctx, chunk, res)
	return res
}

func (c *Client) record(ctx context.Context, chunk string, res Result) {
	if c.recorder == nil {
		return
	}
	rec := CallRecord{
		RunID:      c.runIDFor(ctx),
		ChunkIndex: res.Index,
		ChunkHash:  util.SHA256Hex([]byte(chunk)),
		Provider:   res.Provider.Name,
		Model:      res.Provider.Model,
		Status:     "ok",
		Duration:   res.Duration,
	}
	if res.Err != nil {
		rec.Status = "failed"
		rec.ErrorType = string(ClassifyError(res.Err))
	}
	if err := c.recorder.RecordCall(ctx, rec); err != nil {
		c.log.Warn("record llm call", "chunk", res.Index, "err", err)
	}
}
