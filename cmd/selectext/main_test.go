package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"selectext/internal/document"
	"selectext/internal/highlight"
	"selectext/internal/store"
)

const demoYAML = `
name: demo
text: "You can select any part of this sentence."
highlights:
  - {start: 4, end: 10, id: a}
  - {start: 8, end: 14, id: b, color: "#00FF00"}
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func workspace(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNormalizeCommand(t *testing.T) {
	path := workspace(t, "demo.yaml", demoYAML)

	out, _, err := run(t, "normalize", "--json", path)
	require.NoError(t, err)

	var ranges []highlight.Range
	require.NoError(t, json.Unmarshal([]byte(out), &ranges))
	require.Equal(t, []highlight.Range{{Start: 4, End: 14, ID: "b"}}, ranges)
}

func TestSegmentCommandPlain(t *testing.T) {
	path := workspace(t, "demo.yaml", demoYAML)

	out, _, err := run(t, "segment", "--plain", path)
	require.NoError(t, err)
	require.Equal(t, "You [can select]{b} any part of this sentence.\n", out)
}

func TestSegmentCommandJSON(t *testing.T) {
	path := workspace(t, "demo.yaml", demoYAML)

	out, _, err := run(t, "segment", "--json", path)
	require.NoError(t, err)

	var got struct {
		Name     string              `json:"name"`
		Segments []highlight.Segment `json:"segments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "demo", got.Name)
	require.Len(t, got.Segments, 3)
	require.Equal(t, "can select", got.Segments[1].Text)
	require.True(t, got.Segments[1].Highlight)
}

func TestSegmentCommandRejectsInvalidRange(t *testing.T) {
	path := workspace(t, "bad.yaml", "text: abc\nhighlights:\n  - {start: 1, end: 9, id: x}\n")

	_, _, err := run(t, "segment", path)
	require.ErrorIs(t, err, highlight.ErrInvalidRange)
}

func TestSegmentCommandFlagConflict(t *testing.T) {
	path := workspace(t, "demo.yaml", demoYAML)

	_, _, err := run(t, "segment", "--json", "--plain", path)
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestHighlightAndRemoveCommands(t *testing.T) {
	path := workspace(t, "doc.yaml", "name: doc\ntext: alpha beta gamma\nhighlights: []\n")

	out, _, err := run(t, "highlight", "--start", "6", "--end", "10", path)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	doc, err := document.LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, []highlight.Range{{Start: 6, End: 10, ID: id, Color: store.DefaultColor}}, doc.Highlights)

	_, _, err = run(t, "remove", path, id)
	require.NoError(t, err)
	doc, err = document.LoadFromFile(path)
	require.NoError(t, err)
	require.Empty(t, doc.Highlights)

	_, _, err = run(t, "remove", path, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHighlightCommandRejectsBadSelection(t *testing.T) {
	path := workspace(t, "doc.yaml", "text: abc\nhighlights: []\n")

	_, _, err := run(t, "highlight", "--start", "2", "--end", "2", path)
	require.ErrorIs(t, err, store.ErrEmptySelection)

	_, _, err = run(t, "highlight", "--start", "1", "--end", "40", path)
	require.ErrorIs(t, err, highlight.ErrInvalidRange)

	doc, err := document.LoadFromFile(path)
	require.NoError(t, err)
	require.Empty(t, doc.Highlights)
}

func TestFollowCommandReadsOnce(t *testing.T) {
	path := workspace(t, "docs.jsonl", strings.Join([]string{
		`{"name":"one","text":"hello world","highlights":[{"start":0,"end":5,"id":"a"}]}`,
		`not json`,
		`{"name":"two","text":"plain text","highlights":[]}`,
	}, "\n")+"\n")

	out, errOut, err := run(t, "follow", "--plain", path)
	require.NoError(t, err)
	require.Equal(t, "[hello]{a} world\nplain text\n", out)
	require.Contains(t, errOut, "docs.jsonl:2: parse record")
}

func TestFollowCommandHighlightedOnly(t *testing.T) {
	path := workspace(t, "docs.jsonl",
		`{"text":"hello world","highlights":[{"start":6,"end":11,"id":"w"}]}`+"\n"+
			`{"text":"nothing here","highlights":[]}`+"\n")

	out, _, err := run(t, "follow", "--plain", "--highlighted-only", path)
	require.NoError(t, err)
	require.Equal(t, "hello [world]{w}\n", out)
}

func TestUnknownConfigFileFails(t *testing.T) {
	path := workspace(t, "demo.yaml", demoYAML)

	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "segment", path)
	require.ErrorContains(t, err, "read config")
}
