package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"selectext/internal/highlight"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
}

func TestAddUsesStoreColorAndUUID(t *testing.T) {
	s := New(nil)
	r, err := s.Add(2, 5, "")
	require.NoError(t, err)
	require.Equal(t, DefaultColor, r.Color)
	_, err = uuid.Parse(r.ID)
	require.NoError(t, err)
	require.Equal(t, []highlight.Range{r}, s.Ranges())
	require.Equal(t, uint64(1), s.Version())
}

func TestAddExplicitColor(t *testing.T) {
	s := New(nil, WithColor("#00FF00"), WithIDFunc(sequentialIDs()))
	r, err := s.Add(0, 1, "#123456")
	require.NoError(t, err)
	require.Equal(t, highlight.Range{Start: 0, End: 1, ID: "h1", Color: "#123456"}, r)

	r, err = s.Add(1, 2, "")
	require.NoError(t, err)
	require.Equal(t, highlight.Color("#00FF00"), r.Color)
}

func TestAddRejectsEmptySelection(t *testing.T) {
	s := New(nil)
	for _, tc := range [][2]int{{3, 3}, {4, 2}, {-1, 2}} {
		_, err := s.Add(tc[0], tc[1], "")
		require.ErrorIs(t, err, ErrEmptySelection)
	}
	require.Empty(t, s.Ranges())
	require.Zero(t, s.Version())
}

func TestHandleSelection(t *testing.T) {
	s := New(nil, WithIDFunc(sequentialIDs()))

	r, created, err := s.HandleSelection(Selection{EventType: ActionHighlight, Content: "select", Start: 8, End: 14})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, highlight.Range{Start: 8, End: 14, ID: "h1", Color: DefaultColor}, r)

	_, created, err = s.HandleSelection(Selection{EventType: "Copy", Start: 0, End: 3})
	require.NoError(t, err)
	require.False(t, created)
	require.Len(t, s.Ranges(), 1)

	_, created, err = s.HandleSelection(Selection{EventType: ActionHighlight, Start: 5, End: 5})
	require.ErrorIs(t, err, ErrEmptySelection)
	require.False(t, created)
}

func TestRemoveAndGet(t *testing.T) {
	s := New([]highlight.Range{{Start: 0, End: 2, ID: "a"}, {Start: 4, End: 6, ID: "b"}})

	got, ok := s.Get("b")
	require.True(t, ok)
	require.Equal(t, 4, got.Start)

	require.NoError(t, s.Remove("a"))
	_, ok = s.Get("a")
	require.False(t, ok)
	require.Equal(t, []highlight.Range{{Start: 4, End: 6, ID: "b"}}, s.Ranges())

	require.ErrorIs(t, s.Remove("a"), ErrNotFound)
}

func TestRangesIsACopy(t *testing.T) {
	initial := []highlight.Range{{Start: 0, End: 2, ID: "a"}}
	s := New(initial)
	initial[0].ID = "changed"

	out := s.Ranges()
	out[0].ID = "mutated"
	require.Equal(t, "a", s.Ranges()[0].ID)
}

func TestConcurrentAdds(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Add(i, i+1, "")
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()
	require.Len(t, s.Ranges(), 50)
	require.Equal(t, uint64(50), s.Version())
}
