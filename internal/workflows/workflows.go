package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"squish/internal/activities"
)

const QueryGetProgress = "GetProgress"

const (
	defaultChunkTimeout = 3 * time.Minute
	chunkTimeoutSlack   = time.Minute
)

// noRetry runs every activity exactly once; a failed chunk stays empty.
var noRetry = &temporal.RetryPolicy{MaximumAttempts: 1}

// chunkTimeout bounds one AbridgeChunkActivity: the backend request timeout
// plus a minute for the activity itself.
func chunkTimeout(input AbridgeBookInput) time.Duration {
	if input.ChunkTimeoutSeconds <= 0 {
		return defaultChunkTimeout
	}
	return time.Duration(input.ChunkTimeoutSeconds)*time.Second + chunkTimeoutSlack
}

// AbridgeBookWorkflow extracts and chunks the input, abridges the chunks with
// at most Concurrency activities in flight, starting the next chunk as soon as
// any running one finishes, and writes the results in chunk order.
func AbridgeBookWorkflow(ctx workflow.Context, input AbridgeBookInput) (AbridgeBookOutput, error) {
	progress := AbridgeProgress{InputPath: input.InputPath, CurrentStep: "extract"}
	if err := workflow.SetQueryHandler(ctx, QueryGetProgress, func() (AbridgeProgress, error) {
		return progress, nil
	}); err != nil {
		return AbridgeBookOutput{}, err
	}
	logger := workflow.GetLogger(ctx)

	ioCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy:         noRetry,
	})
	var chunksOut activities.ExtractChunksOutput
	if err := workflow.ExecuteActivity(ioCtx, "ExtractChunksActivity", activities.ExtractChunksInput{
		InputPath: input.InputPath,
		SoftLimit: input.SoftLimit,
	}).Get(ctx, &chunksOut); err != nil {
		return AbridgeBookOutput{}, err
	}
	chunks := chunksOut.Chunks
	progress.Total = len(chunks)
	progress.CurrentStep = "abridge"

	window := input.Concurrency
	if window <= 0 {
		window = 1
	}
	abridgeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: chunkTimeout(input),
		RetryPolicy:         noRetry,
	})
	parts := make([]string, len(chunks))
	sel := workflow.NewSelector(ctx)
	pending := 0
	start := func(idx int) {
		pending++
		f := workflow.ExecuteActivity(abridgeCtx, "AbridgeChunkActivity", activities.AbridgeChunkInput{
			Index: idx,
			Text:  chunks[idx],
		})
		sel.AddFuture(f, func(f workflow.Future) {
			pending--
			progress.Done++
			var out activities.AbridgeChunkOutput
			if err := f.Get(ctx, &out); err != nil {
				progress.Failed++
				logger.Error("abridge chunk activity failed", "chunk", idx, "error", err)
				return
			}
			if out.Failed {
				progress.Failed++
			}
			parts[idx] = out.Text
		})
	}
	next := 0
	for ; next < len(chunks) && next < window; next++ {
		start(next)
	}
	for pending > 0 {
		sel.Select(ctx)
		if next < len(chunks) {
			start(next)
			next++
		}
	}

	progress.CurrentStep = "write"
	var writeOut activities.WriteOutputOutput
	if err := workflow.ExecuteActivity(ioCtx, "WriteOutputActivity", activities.WriteOutputInput{
		InputPath: input.InputPath,
		Parts:     parts,
	}).Get(ctx, &writeOut); err != nil {
		return AbridgeBookOutput{}, err
	}
	progress.CurrentStep = "done"
	return AbridgeBookOutput{
		OutputPath: writeOut.OutputPath,
		Chunks:     len(chunks),
		Failed:     progress.Failed,
	}, nil
}
