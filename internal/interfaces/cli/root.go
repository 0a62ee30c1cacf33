// Package cli 提供命令行入口
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"ai-content-gen-api/internal/application/generation"
	"ai-content-gen-api/internal/infrastructure/messaging"
)

// AuditReader 审计流读取
type AuditReader interface {
	Recent(ctx context.Context, stream messaging.Stream, n int64) ([]*messaging.Message, error)
}

// App 命令依赖
type App struct {
	Generation *generation.Service
	// Audit 可为 nil
	Audit AuditReader
}

// Loader 惰性构建依赖，options 等命令无需初始化
type Loader func(ctx context.Context) (*App, func(), error)

// NewRootCommand 创建根命令
func NewRootCommand(load Loader, prompter Prompter) *cobra.Command {
	root := &cobra.Command{
		Use:           "content-cli",
		Short:         "Generate blog posts, tweets, emails and more from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCommand(load, prompter),
		newOptionsCommand(),
		newAuditCommand(load),
	)
	return root
}
