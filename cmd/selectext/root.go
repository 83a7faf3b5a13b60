package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"selectext/internal/config"
	"selectext/internal/document"
	"selectext/internal/highlight"
	"selectext/internal/log"
)

var version = "dev"

// app carries the state shared by every subcommand once config is loaded.
type app struct {
	v         *viper.Viper
	cfgFile   string
	cfg       config.Config
	segmenter *highlight.Segmenter
	cleanup   func()
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), cleanup: func() {}}

	root := &cobra.Command{
		Use:           "selectext",
		Short:         "Split highlighted text into renderable segments",
		Long:          `selectext merges overlapping highlight ranges and splits texts into plain and highlighted segments.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.cleanup()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: .selectext/config.yaml or ~/.config/selectext/config.yaml)")
	root.PersistentFlags().String("log-file", "", "append debug logs to this file")
	root.PersistentFlags().String("theme", "", "theme name (vapor|midnight|dusk)")
	root.PersistentFlags().String("highlight-color", "", "color for highlights without their own")
	root.PersistentFlags().String("unit", "", "offset unit for documents that do not name one (byte|rune|utf16)")
	_ = a.v.BindPFlag("log_file", root.PersistentFlags().Lookup("log-file"))
	_ = a.v.BindPFlag("theme", root.PersistentFlags().Lookup("theme"))
	_ = a.v.BindPFlag("highlight_color", root.PersistentFlags().Lookup("highlight-color"))
	_ = a.v.BindPFlag("unit", root.PersistentFlags().Lookup("unit"))

	root.AddCommand(
		newNormalizeCmd(a),
		newSegmentCmd(a),
		newHighlightCmd(a),
		newRemoveCmd(a),
		newFollowCmd(a),
		newViewCmd(a),
	)
	return root
}

func (a *app) init() error {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply does not race the input loop.
	_ = lipgloss.HasDarkBackground()

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	cleanup, err := cfg.InitLogging()
	if err != nil {
		return err
	}
	a.cleanup = cleanup
	a.segmenter = highlight.NewSegmenter(highlight.NewNormalizer(cfg.NormalizerOptions()...))
	log.Debug(log.CatConfig, "configured", "theme", cfg.Theme, "unit", cfg.Unit, "cache_max", cfg.Cache.MaxEntries)
	return nil
}

// loadDocument reads path and applies the configured default unit.
func (a *app) loadDocument(path string) (document.Document, error) {
	doc, err := document.LoadFromFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("load document: %w", err)
	}
	if doc.Unit == "" {
		doc.Unit = a.cfg.DefaultUnit()
	}
	return doc, nil
}

func (a *app) defaultColor(doc document.Document) highlight.Color {
	if doc.HighlightColor.IsSet() {
		return doc.HighlightColor
	}
	return highlight.Color(a.cfg.HighlightColor)
}

// teaLogging reopens the log file through tea.LogToFile once a Bubble Tea
// program is about to own the terminal.
func (a *app) teaLogging() error {
	if a.cfg.LogFile == "" {
		return nil
	}
	a.cleanup()
	cleanup, err := log.InitWithTeaLog(a.cfg.LogFile, "selectext")
	if err != nil {
		a.cleanup = func() {}
		return fmt.Errorf("open log file: %w", err)
	}
	level, _ := log.ParseLevel(a.cfg.LogLevel)
	log.SetMinLevel(level)
	a.cleanup = cleanup
	return nil
}
