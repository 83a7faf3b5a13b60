package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"selectext/internal/highlight"
	"selectext/internal/pipeline"
	"selectext/internal/tui"
	"selectext/internal/watch"
)

func newFollowCmd(a *app) *cobra.Command {
	var (
		follow, fromEnd, highlightedOnly bool
		useTUI, asJSON, plain            bool
	)
	cmd := &cobra.Command{
		Use:   "follow <file>...",
		Short: "Segment JSON-lines documents as they are appended to files",
		Long: `follow reads one JSON document per line ({"name","text","unit","highlights"})
from each file and prints its segments. With --tui the documents are shown in
an interactive viewer instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && plain {
				return fmt.Errorf("--json and --plain are mutually exclusive")
			}
			ctx, cancel := signalContext()
			defer cancel()

			records, err := watch.TailFiles(ctx, args, watch.Options{Follow: follow, FromEnd: fromEnd})
			if err != nil {
				return fmt.Errorf("start tailing: %w", err)
			}
			events := pipeline.New(a.segmenter, highlightedOnly).Connect(ctx, records)

			if useTUI {
				if err := a.teaLogging(); err != nil {
					return err
				}
				model := tui.NewModel(tui.ModelConfig{
					Events:         events,
					Segmenter:      a.segmenter,
					ThemeName:      a.cfg.Theme,
					HighlightColor: highlight.Color(a.cfg.HighlightColor),
					Scrollback:     a.cfg.Scrollback,
					Sources:        args,
				})
				_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			return a.printEvents(cmd.OutOrStdout(), cmd.ErrOrStderr(), events, asJSON, plain)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep reading as the files grow")
	cmd.Flags().BoolVar(&fromEnd, "from-end", false, "with --follow, skip the existing content")
	cmd.Flags().BoolVar(&highlightedOnly, "highlighted-only", false, "drop documents without highlights")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show documents in the interactive viewer")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print segments as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print text with [highlight]{id} markers and no styling")
	return cmd
}

// printEvents writes each event until the stream closes. Bad records are
// reported on errw and do not stop the stream.
func (a *app) printEvents(w, errw io.Writer, events <-chan pipeline.SegmentedEvent, asJSON, plain bool) error {
	for evt := range events {
		if evt.Err != nil {
			fmt.Fprintf(errw, "%s:%d: %v\n", evt.Path, evt.Line, evt.Err)
			continue
		}
		def := evt.HighlightColor
		if !def.IsSet() {
			def = highlight.Color(a.cfg.HighlightColor)
		}
		if err := a.printSegments(w, evt.Name, def, evt.Segments, asJSON, plain); err != nil {
			return err
		}
	}
	return nil
}
