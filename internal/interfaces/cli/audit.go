package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ai-content-gen-api/internal/infrastructure/messaging"
)

func newAuditCommand(load Loader) *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent generation.finished events from the audit stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, cleanup, err := load(ctx)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			defer cleanup()

			if app.Audit == nil {
				return errors.New("audit stream requires cache.redis.enabled")
			}

			msgs, err := app.Audit.Recent(ctx, messaging.StreamContentGenerated, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSESSION\tSTATE\tTYPE\tLENGTH\tPROVIDER\tDURATION")
			for _, m := range msgs {
				var e messaging.GenerationFinishedMessage
				if err := m.UnmarshalPayload(&e); err != nil {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%dms\n",
					m.CreatedAt.Format("2006-01-02 15:04:05"),
					e.SessionID, e.State, e.ContentType, e.Length, e.Provider, e.DurationMs)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64VarP(&limit, "limit", "n", 20, "number of events to show")
	return cmd
}
