package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"squish/internal/config"
	"squish/internal/dispatch"
	"squish/internal/logger"
	"squish/internal/workflows"
)

func main() {
	if err := newSubmitCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "submit <input_file>",
		Short:        "Abridge an e-book through the squish Temporal worker",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Usage()
			}
			return submit(cmd, args[0])
		},
	}
}

func submit(cmd *cobra.Command, input string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, cfg.LogLevel)
	abs, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer c.Close()

	ctx := cmd.Context()
	we, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                    "abridge-" + uuid.NewString(),
		TaskQueue:             cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.AbridgeBookWorkflow, workflows.AbridgeBookInput{
		InputPath:           abs,
		SoftLimit:           cfg.SoftLimit,
		Concurrency:         dispatch.EffectiveConcurrency(cfg),
		ChunkTimeoutSeconds: cfg.RequestTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	log.Info("workflow started", "workflow_id", we.GetID(), "run_id", we.GetRunID())

	var out workflows.AbridgeBookOutput
	if err := we.Get(ctx, &out); err != nil {
		return fmt.Errorf("workflow %s: %w", we.GetID(), err)
	}
	if out.Failed > 0 {
		log.Warn("some chunks came back empty", "failed", out.Failed, "total", out.Chunks)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.OutputPath)
	return nil
}
