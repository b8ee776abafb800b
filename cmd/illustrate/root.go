package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crayon/internal/infra"
	"crayon/internal/pipeline"
	"crayon/internal/prompt"
	"crayon/internal/providers/openai"
	"crayon/internal/storage"
)

type cliOptions struct {
	size        string
	outDir      string
	style       string
	safe        bool
	printPrompt bool
}

func newRootCmd() *cobra.Command {
	var opts cliOptions
	cmd := &cobra.Command{
		Use:           "illustrate [flags] IMAGE...",
		Short:         "Turn one or more photos into a single crayon-style illustration",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.size != "" && !pipeline.ValidSize(opts.size) {
				return fmt.Errorf("unsupported --size %q (want 1024x1024, 1024x1536, 1536x1024 or auto)", opts.size)
			}
			if opts.style != "" {
				if _, ok := prompt.Style(opts.style); !ok {
					return fmt.Errorf("unknown --style %q", opts.style)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIllustrate(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.size, "size", "s", "", "generation size, defaults to IMAGE_SIZE")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "output directory, defaults to OUTPUT_DIR")
	cmd.Flags().StringVar(&opts.style, "style", "", "style preset: crayon or faithful")
	cmd.Flags().BoolVar(&opts.safe, "safe", true, "filter unsafe terms from the prompt")
	cmd.Flags().BoolVar(&opts.printPrompt, "print-prompt", false, "print the final prompt to stderr")
	return cmd
}

func runIllustrate(cmd *cobra.Command, images []string, opts cliOptions) error {
	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv, "illustrate")

	outDir := cfg.OutputDir
	if opts.outDir != "" {
		outDir = opts.outDir
	}
	outputs, err := storage.NewFileStore(outDir)
	if err != nil {
		return err
	}
	client, err := openai.NewClient(cfg.OpenAIOptions(&logger))
	if err != nil {
		return err
	}

	pipeOpts := cfg.PipelineOptions()
	if opts.style != "" {
		pipeOpts.Style, _ = prompt.Style(opts.style)
	}
	if cmd.Flags().Changed("safe") {
		pipeOpts.Safe = opts.safe
	}
	pipe, err := pipeline.New(pipeline.Deps{
		Vision: client,
		Text:   client,
		Images: client,
		Store:  outputs,
		Logger: &logger,
	}, pipeOpts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipe.Run(ctx, pipeline.Request{Images: images, Size: opts.size})
	if err != nil {
		return err
	}
	if opts.printPrompt {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Prompt)
	}
	fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(outputs.BasePath(), res.Name))
	return nil
}
