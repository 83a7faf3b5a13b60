package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Record) []Record {
	t.Helper()
	var got []Record
	timeout := time.After(5 * time.Second)
	for {
		select {
		case rec, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, rec)
		case <-timeout:
			t.Fatal("timed out waiting for records")
		}
	}
}

func TestTailFilesReadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"text\":\"a\"}\n\n{\"text\":\"b\"}\r\n"), 0o644))

	ch, err := TailFiles(context.Background(), []string{path}, Options{})
	require.NoError(t, err)

	got := collect(t, ch)
	require.Len(t, got, 2)
	require.Equal(t, Record{Path: path, Line: 1, Text: `{"text":"a"}`}, got[0])
	require.Equal(t, Record{Path: path, Line: 3, Text: `{"text":"b"}`}, got[1])
}

func TestTailFilesMergesSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "one.jsonl")
	second := filepath.Join(dir, "two.jsonl")
	require.NoError(t, os.WriteFile(first, []byte("1\n2\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("3\n"), 0o644))

	ch, err := TailFiles(context.Background(), []string{first, second}, Options{})
	require.NoError(t, err)
	require.Len(t, collect(t, ch), 3)
}

func TestTailFilesErrors(t *testing.T) {
	_, err := TailFiles(context.Background(), nil, Options{})
	require.Error(t, err)

	_, err = TailFiles(context.Background(), []string{filepath.Join(t.TempDir(), "missing.jsonl")}, Options{})
	require.Error(t, err)
}

func TestTailFilesFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := TailFiles(ctx, []string{path}, Options{Follow: true})
	require.NoError(t, err)

	select {
	case rec := <-ch:
		require.Equal(t, "first", rec.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("no record while following")
	}

	cancel()
	collect(t, ch)
}
