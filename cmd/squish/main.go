package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"squish/internal/config"
	"squish/internal/logger"
	"squish/internal/pipeline"
	"squish/internal/providers"
	"squish/internal/storage"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "squish <input_file>",
		Short:        "Abridge an e-book with a language model",
		Long:         "squish reads a .txt, .pdf or .epub file, abridges it chunk by chunk with the model named in config.json and writes <name>_squish.txt next to the input.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Usage()
			}
			out, err := run(cmd.Context(), ".", args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func run(ctx context.Context, configDir, input string) (string, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return "", err
	}
	log := logger.New(os.Stderr, cfg.LogLevel)

	provider, err := providers.NewProvider(cfg)
	if err != nil {
		return "", err
	}
	var opts []pipeline.Option
	if cfg.AuditPostgresURL != "" {
		db, repo, err := storage.OpenAudit(ctx, cfg.AuditPostgresURL)
		if err != nil {
			log.Warn("call audit disabled", "err", err)
		} else {
			defer db.Close()
			opts = append(opts, pipeline.WithRecorder(repo))
		}
	}

	sum, err := pipeline.New(cfg, provider, log, opts...).Run(ctx, input)
	if err != nil {
		return "", err
	}
	return sum.OutputPath, nil
}
