package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ai-content-gen-api/internal/application/generation"
	"ai-content-gen-api/internal/domain/entity"
)

// ErrGenerationFailed 生成失败时命令以非零状态退出
var ErrGenerationFailed = errors.New("content generation failed")

type generateFlags struct {
	topic       string
	contentType string
	tone        string
	length      string
	out         string
	noSpinner   bool
}

func newGenerateCommand(load Loader, prompter Prompter) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate content from a topic, type, tone and length",
		Example: `  content-cli generate --topic "remote work" --type blog-post --tone casual --length short
  content-cli generate --out draft.txt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := entity.FormInput{
				Topic:       f.topic,
				ContentType: entity.ContentType(f.contentType),
				Tone:        entity.Tone(f.tone),
				Length:      entity.Length(f.length),
			}
			if err := collectMissing(&input, prompter); err != nil {
				return err
			}

			ctx := cmd.Context()
			app, cleanup, err := load(ctx)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			defer cleanup()

			progress := io.Discard
			if !f.noSpinner {
				progress = cmd.ErrOrStderr()
			}
			out, err := runGeneration(ctx, app.Generation, input, progress)
			if err != nil {
				return err
			}

			if err := writeOutput(cmd.OutOrStdout(), f.out, out.View.Display); err != nil {
				return err
			}
			if out.View.State == entity.RequestStateFailed {
				return ErrGenerationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.topic, "topic", "", "what the content is about")
	cmd.Flags().StringVar(&f.contentType, "type", "", "content type, see `content-cli options`")
	cmd.Flags().StringVar(&f.tone, "tone", "", "tone of voice")
	cmd.Flags().StringVar(&f.length, "length", "", "short, medium or long")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the content to a file instead of stdout")
	cmd.Flags().BoolVar(&f.noSpinner, "no-spinner", false, "disable the progress spinner")
	return cmd
}

// collectMissing 交互式补全空字段
func collectMissing(input *entity.FormInput, prompter Prompter) error {
	if input.IsComplete() {
		return nil
	}
	if prompter == nil {
		return fmt.Errorf("missing fields: %v", input.MissingFields())
	}

	var err error
	if input.Topic == "" {
		if input.Topic, err = prompter.Text("Topic"); err != nil {
			return err
		}
	}
	if input.ContentType == "" {
		v, err := prompter.Select("Content Type", contentTypeChoices())
		if err != nil {
			return err
		}
		input.ContentType = entity.ContentType(v)
	}
	if input.Tone == "" {
		v, err := prompter.Select("Tone", toneChoices())
		if err != nil {
			return err
		}
		input.Tone = entity.Tone(v)
	}
	if input.Length == "" {
		v, err := prompter.Select("Length", lengthChoices())
		if err != nil {
			return err
		}
		input.Length = entity.Length(v)
	}
	return nil
}

// runGeneration 在后台提交，前台显示等待动画
func runGeneration(ctx context.Context, svc *generation.Service, input entity.FormInput, progress io.Writer) (*generation.Outcome, error) {
	sid, _, err := svc.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Creating amazing content for you..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	type result struct {
		out *generation.Outcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := svc.Submit(ctx, sid, input)
		done <- result{out, err}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case r := <-done:
			_ = bar.Finish()
			return r.out, r.err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, err := fmt.Fprintf(stdout, "saved to %s\n", path)
	return err
}
