package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogDisabledByDefault(t *testing.T) {
	Reset()
	require.NotPanics(t, func() {
		Debug(CatCache, "nothing configured")
	})
}

func TestLogFormatsFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	Info(CatCache, "cache hit", "key", "abc", "entries", 3)

	line := buf.String()
	require.Contains(t, line, "[INFO] [cache] cache hit key=abc entries=3")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestLogOrphanField(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	Warn(CatStore, "odd fields", "lonely")
	require.Contains(t, buf.String(), "lonely=<missing>")
}

func TestLogMinLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)
	SetMinLevel(LevelWarn)

	Debug(CatUI, "dropped")
	Info(CatUI, "dropped too")
	ErrorErr(CatUI, "kept", errors.New("boom"))

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "[ERROR] [ui] kept error=boom")
}

func TestLogSetEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)

	SetEnabled(false)
	Error(CatWatch, "muted")
	require.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}
