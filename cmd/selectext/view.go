package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"selectext/internal/document"
	"selectext/internal/log"
	"selectext/internal/store"
	"selectext/internal/tui"
)

func newViewCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "view <document>",
		Short: "Browse a document's highlights interactively",
		Long: `view renders a document with its highlights. Tab moves between highlights,
enter presses the focused one and d removes it. With --save removals are written
back to the document on exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			if err := a.teaLogging(); err != nil {
				return err
			}

			st := store.New(doc.Highlights, store.WithColor(a.defaultColor(doc)))
			model := tui.NewModel(tui.ModelConfig{
				Document:       &doc,
				Store:          st,
				Segmenter:      a.segmenter,
				ThemeName:      a.cfg.Theme,
				HighlightColor: a.defaultColor(doc),
				Sources:        []string{args[0]},
				OnPress: func(id string) {
					log.Info(log.CatUI, "highlight pressed", "document", doc.Name, "id", id)
				},
			})
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
				return err
			}

			if save && st.Version() > 0 {
				doc.Highlights = st.Ranges()
				return document.SaveToFile(args[0], doc)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write highlight changes back to the document on exit")
	return cmd
}
