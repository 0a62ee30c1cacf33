package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ai-content-gen-api/internal/domain/entity"
)

func contentTypeChoices() []Choice {
	out := make([]Choice, 0, len(entity.ContentTypes))
	for _, t := range entity.ContentTypes {
		out = append(out, Choice{Value: string(t), Label: t.Label()})
	}
	return out
}

func toneChoices() []Choice {
	out := make([]Choice, 0, len(entity.Tones))
	for _, t := range entity.Tones {
		out = append(out, Choice{Value: string(t), Label: t.Label()})
	}
	return out
}

func lengthChoices() []Choice {
	out := make([]Choice, 0, len(entity.Lengths))
	for _, l := range entity.Lengths {
		out = append(out, Choice{Value: string(l), Label: l.Label()})
	}
	return out
}

func newOptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List accepted content types, tones and lengths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			groups := []struct {
				flag    string
				choices []Choice
			}{
				{"--type", contentTypeChoices()},
				{"--tone", toneChoices()},
				{"--length", lengthChoices()},
			}
			for _, g := range groups {
				fmt.Fprintf(w, "%s\n", g.flag)
				for _, c := range g.choices {
					fmt.Fprintf(w, "  %s\t%s\n", c.Value, c.Label)
				}
			}
			return w.Flush()
		},
	}
}
