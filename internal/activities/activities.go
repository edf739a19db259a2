package activities

import (
	"context"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"

	"squish/internal/config"
	"squish/internal/extract"
	"squish/internal/providers"
	"squish/internal/util"
)

type Activities struct {
	cfg    config.Config
	client *providers.Client
}

func New(cfg config.Config, client *providers.Client) *Activities {
	return &Activities{cfg: cfg, client: client}
}

func (a *Activities) ExtractChunksActivity(ctx context.Context, in ExtractChunksInput) (ExtractChunksOutput, error) {
	_ = ctx
	text, err := extract.ExtractText(in.InputPath)
	if err != nil {
		return ExtractChunksOutput{}, fmt.Errorf("extract %s: %w", in.InputPath, err)
	}
	limit := in.SoftLimit
	if limit <= 0 {
		limit = a.cfg.SoftLimit
	}
	return ExtractChunksOutput{Chunks: util.SplitChunks(text, limit)}, nil
}

// AbridgeChunkActivity reports backend failures in its output instead of
// returning an error, so a failed chunk never fails the workflow. Audit rows
// are grouped under the calling workflow's ID.
func (a *Activities) AbridgeChunkActivity(ctx context.Context, in AbridgeChunkInput) (AbridgeChunkOutput, error) {
	if activity.IsActivity(ctx) {
		ctx = providers.ContextWithRunID(ctx, activity.GetInfo(ctx).WorkflowExecution.ID)
	}
	res := a.client.Abridge(ctx, in.Index, in.Text)
	out := AbridgeChunkOutput{Index: in.Index, Text: res.Render(), Failed: res.Failed()}
	if res.Failed() {
		out.ErrorType = string(providers.ClassifyError(res.Err))
	}
	return out, nil
}

func (a *Activities) WriteOutputActivity(ctx context.Context, in WriteOutputInput) (WriteOutputOutput, error) {
	_ = ctx
	path := util.OutputPath(in.InputPath)
	if err := util.WriteTextAtomic(path, strings.Join(in.Parts, "")); err != nil {
		return WriteOutputOutput{}, fmt.Errorf("write output: %w", err)
	}
	return WriteOutputOutput{OutputPath: path}, nil
}
