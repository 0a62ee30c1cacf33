// Package main 内容生成命令行入口
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ai-content-gen-api/internal/config"
	"ai-content-gen-api/internal/interfaces/cli"
	einoobs "ai-content-gen-api/internal/observability/eino"
	"ai-content-gen-api/internal/wire"
	"ai-content-gen-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 日志写 stderr，stdout 只输出生成内容
	output := cfg.Observability.Logging.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	logger.InitWithOutput(cfg.Observability.Logging.Level, "text", output)

	einoobs.Init()

	load := func(ctx context.Context) (*cli.App, func(), error) {
		app, cleanup, err := wire.InitializeCLI(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		out := &cli.App{Generation: app.Generation}
		if app.Audit != nil {
			out.Audit = app.Audit
		}
		return out, cleanup, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(load, cli.TerminalPrompter{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
