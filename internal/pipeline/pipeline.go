// Package pipeline runs one book through extraction, chunking, abridging and
// writing.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"squish/internal/config"
	"squish/internal/dispatch"
	"squish/internal/extract"
	"squish/internal/providers"
	"squish/internal/util"
)

type Summary struct {
	RunID      string
	InputPath  string
	OutputPath string
	Chunks     int
	Failed     int
}

type Option func(*Pipeline)

// WithRecorder audits every model call made by the run.
func WithRecorder(r providers.CallRecorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

type Pipeline struct {
	cfg      config.Config
	provider providers.LLMProvider
	log      *charmlog.Logger
	recorder providers.CallRecorder
}

func New(cfg config.Config, provider providers.LLMProvider, logger *charmlog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, provider: provider, log: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run abridges inputPath into its _squish.txt sibling. Extraction and write
// failures are returned; per-chunk backend failures only leave gaps in the output.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), InputPath: inputPath}
	log := p.log.With("run", sum.RunID[:8])

	text, err := extract.ExtractText(inputPath)
	if err != nil {
		return sum, fmt.Errorf("extract %s: %w", inputPath, err)
	}
	chunks := util.SplitChunks(text, p.cfg.SoftLimit)
	sum.Chunks = len(chunks)

	workers := dispatch.EffectiveConcurrency(p.cfg)
	log.Info("abridging", "input", inputPath, "chunks", len(chunks), "workers", workers, "engine", p.cfg.Engine, "model", p.cfg.Model)

	opts := []providers.ClientOption{providers.WithRunID(sum.RunID)}
	if p.recorder != nil {
		opts = append(opts, providers.WithRecorder(p.recorder))
	}
	client := providers.NewClient(p.provider, log, opts...)
	results := dispatch.Run(ctx, client, chunks, workers, func(done, total int) {
		log.Info("progress", "done", done, "total", total)
	})
	sum.Failed = dispatch.CountFailed(results)

	sum.OutputPath = util.OutputPath(inputPath)
	if err := util.WriteTextAtomic(sum.OutputPath, strings.Join(dispatch.Render(results), "")); err != nil {
		return sum, fmt.Errorf("write output: %w", err)
	}
	if sum.Failed > 0 {
		log.Warn("some chunks came back empty", "failed", sum.Failed, "total", sum.Chunks)
	}
	log.Info("wrote abridged text", "output", sum.OutputPath)
	return sum, nil
}
