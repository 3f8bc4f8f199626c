package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/textgen/internal/config"
	"github.com/kitbuilder587/textgen/internal/llm"
	"github.com/kitbuilder587/textgen/internal/llm/openai"
	"github.com/kitbuilder587/textgen/internal/metrics"
)

const usage = `textgen runs prompts against the text completion API.

Usage:
  textgen                               run a sample completion and edit
  textgen complete <prompt>             print the first completion
  textgen edit <input> <instruction>    print the first edit`

var errUsage = errors.New("invalid arguments")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, prometheus.NewRegistry()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, reg *prometheus.Registry) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	client := openai.New(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	}, logger).WithMetrics(metrics.NewWithRegistry(reg))
	defer logRequestTotals(logger, reg)

	// Validate keeps MaxTokens within uint32.
	maxTokens := uint32(cfg.Models.MaxTokens)

	if len(args) == 0 {
		return runSample(ctx, client, cfg.Models, stdout, logger)
	}

	switch args[0] {
	case "complete":
		if len(args) != 2 {
			return fmt.Errorf("%w: complete takes one prompt", errUsage)
		}
		text, err := llm.CompletionsPretty(ctx, client, args[1], cfg.Models.Completions, maxTokens)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, text)
	case "edit":
		if len(args) != 3 {
			return fmt.Errorf("%w: edit takes an input and an instruction", errUsage)
		}
		text, err := llm.EditsPretty(ctx, client, args[1], args[2], cfg.Models.Edits)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, text)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, strings.TrimSpace(usage))
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return nil
}

// runSample issues one completion and one edit concurrently and prints both
// results in a fixed order.
func runSample(ctx context.Context, client llm.Client, models config.ModelsConfig, stdout io.Writer, logger *zap.Logger) error {
	var completion, edit string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := llm.CompletionsPretty(ctx, client,
			"Is Madonna president of USA? If you ask yes or not. I say:",
			models.Completions, uint32(models.MaxTokens))
		if err != nil {
			return fmt.Errorf("completion: %w", err)
		}
		completion = text
		return nil
	})
	g.Go(func() error {
		text, err := llm.EditsPretty(ctx, client, "Helsllo, Mick!", "Fix grammar", models.Edits)
		if err != nil {
			return fmt.Errorf("edit: %w", err)
		}
		edit = text
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Debug("sample finished",
		zap.Int("completion_len", len(completion)),
		zap.Int("edit_len", len(edit)),
	)
	fmt.Fprintf(stdout, "completion: %s\n", completion)
	fmt.Fprintf(stdout, "edit: %s\n", edit)
	return nil
}

func logRequestTotals(logger *zap.Logger, g prometheus.Gatherer) {
	totals, err := metrics.Totals(g)
	if err != nil {
		logger.Warn("failed to gather request metrics", zap.Error(err))
		return
	}
	if len(totals) == 0 {
		return
	}
	logger.Info("text api requests", zap.Any("totals", totals))
}
