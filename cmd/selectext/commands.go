package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"selectext/internal/document"
	"selectext/internal/highlight"
	"selectext/internal/log"
	"selectext/internal/store"
	"selectext/internal/tui"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "normalize <document>",
		Short: "Print the merged, ordered highlight ranges of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			ranges := doc.Normalized(a.segmenter.Normalizer())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ranges)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(ranges)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}

func newSegmentCmd(a *app) *cobra.Command {
	var asJSON, plain bool
	cmd := &cobra.Command{
		Use:   "segment <document>",
		Short: "Split a document into plain and highlighted segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && plain {
				return fmt.Errorf("--json and --plain are mutually exclusive")
			}
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			segs, err := doc.Segment(a.segmenter)
			if err != nil {
				return err
			}
			log.Debug(log.CatSegment, "segmented document", "name", doc.Name, "segments", len(segs))
			return a.printSegments(cmd.OutOrStdout(), doc.Name, a.defaultColor(doc), segs, asJSON, plain)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print segments as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print text with [highlight]{id} markers and no styling")
	return cmd
}

func (a *app) printSegments(w io.Writer, name string, def highlight.Color, segs []highlight.Segment, asJSON, plain bool) error {
	switch {
	case asJSON:
		return writeJSON(w, struct {
			Name     string              `json:"name,omitempty"`
			Segments []highlight.Segment `json:"segments"`
		}{name, segs})
	case plain:
		_, err := fmt.Fprintln(w, tui.RenderPlain(segs))
		return err
	default:
		theme := tui.ThemeByName(a.cfg.Theme)
		_, err := fmt.Fprintln(w, tui.RenderSegments(segs, theme.Text, theme.HighlightStyle, theme.FocusStyle, def, ""))
		return err
	}
}

func newHighlightCmd(a *app) *cobra.Command {
	var (
		start, end int
		color      string
	)
	cmd := &cobra.Command{
		Use:   "highlight <document>",
		Short: "Turn a selection into a new highlight and save the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			def := a.defaultColor(doc)
			if color != "" {
				def = highlight.Color(color)
			}
			st := store.New(doc.Highlights, store.WithColor(def))
			r, _, err := st.HandleSelection(store.Selection{
				EventType: store.ActionHighlight,
				Start:     start,
				End:       end,
			})
			if err != nil {
				return err
			}
			doc.Highlights = st.Ranges()
			// Reject selections the document text cannot hold before writing.
			if _, err := doc.Segment(a.segmenter); err != nil {
				return err
			}
			if err := document.SaveToFile(args[0], doc); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), r.ID)
			return err
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "selection start offset")
	cmd.Flags().IntVar(&end, "end", 0, "selection end offset (exclusive)")
	cmd.Flags().StringVar(&color, "color", "", "highlight color (defaults to the configured highlight color)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <document> <id>",
		Short: "Remove a highlight by id and save the document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			st := store.New(doc.Highlights)
			if err := st.Remove(args[1]); err != nil {
				return err
			}
			doc.Highlights = st.Ranges()
			return document.SaveToFile(args[0], doc)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
