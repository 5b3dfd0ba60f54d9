package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/docs"
)

type docIndex struct {
	Topics []string `json:"topics"`
}

func (d docIndex) Text() string {
	var sb strings.Builder
	for _, t := range d.Topics {
		fmt.Fprintf(&sb, "%-8s %s\n", t, docs.Title(t))
	}
	return sb.String()
}

type docTopic struct {
	Topic    string `json:"topic"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

func (d docTopic) Text() string { return d.Markdown }

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Help topics: key bindings, sync behaviour, graph metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, wrap(docIndex{Topics: docs.Topics()}))
			}
			body, ok := docs.Get(args[0])
			switch {
			case !ok:
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `ekman docs` to list topics)", args[0]))
			case raw:
				_, err := io.WriteString(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, wrap(docTopic{Topic: args[0], Title: docs.Title(args[0]), Markdown: body}))
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown itself, without the JSON envelope")

	return cmd
}
