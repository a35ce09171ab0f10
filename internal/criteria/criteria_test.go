package criteria

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	set := NewSet([]Entry{
		{Name: "A", Explanation: "expl-A"},
		{Name: "B", Explanation: "expl-B"},
		{Name: "Blank", Explanation: ""},
	})

	tests := []struct {
		name     string
		selected []string
		custom   string
		want     string
	}{
		{"nothing selected", nil, "", ""},
		{"whitespace custom only", nil, "   ", ""},
		{"two criteria", []string{"A", "B"}, "", "expl-A\nexpl-B"},
		{"selection order wins", []string{"B", "A"}, "", "expl-B\nexpl-A"},
		{"custom appended last", []string{"A"}, "Check flood risk.", "expl-A\nCheck flood risk."},
		{"custom alone", nil, "Check flood risk.", "Check flood risk."},
		{"blank explanation skipped", []string{"A", "Blank", "B"}, "", "expl-A\nexpl-B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assemble(tt.selected, set, tt.custom)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssembleUnknownCriterion(t *testing.T) {
	_, err := Assemble([]string{"Missing"}, NewSet(Defaults()), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCriterion))
}

func TestNewSetDuplicateReplacesInPlace(t *testing.T) {
	set := NewSet([]Entry{
		{Name: "A", Explanation: "first"},
		{Name: "B", Explanation: "b"},
		{Name: "A", Explanation: "second"},
	})

	entries := set.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Name: "A", Explanation: "second"}, entries[0])
	explanation, ok := set.Explanation("A")
	assert.True(t, ok)
	assert.Equal(t, "second", explanation)
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.Len(t, d, 8)
	assert.Equal(t, "Economic Feasibility", d[0].Name)

	seen := map[string]bool{}
	for _, e := range d {
		assert.False(t, seen[e.Name], "duplicate default %q", e.Name)
		assert.NotEmpty(t, e.Explanation)
		seen[e.Name] = true
	}

	// Callers get a copy
	d[0].Explanation = "changed"
	assert.NotEqual(t, "changed", Defaults()[0].Explanation)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	entries, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), entries)

	require.NoError(t, st.Put(ctx, Entry{Name: "Economic Feasibility", Explanation: "edited"}))
	got, err := st.Get(ctx, "Economic Feasibility")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Explanation)

	require.NoError(t, st.Put(ctx, Entry{Name: "Water Supply", Explanation: "Check water rights."}))
	entries, err = st.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 9)
	assert.Equal(t, "Water Supply", entries[8].Name)

	_, err = st.Get(ctx, "Nope")
	assert.True(t, errors.Is(err, ErrUnknownCriterion))
	assert.True(t, errors.Is(st.Put(ctx, Entry{Name: " "}), ErrEmptyName))

	require.NoError(t, st.Reset(ctx))
	entries, err = st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), entries)
	assert.NoError(t, st.Close())
}

func TestMemoryStoreConcurrentEdits(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = st.Put(ctx, Entry{Name: fmt.Sprintf("Custom %d", i), Explanation: "x"})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = Snapshot(ctx, st)
		}()
	}
	wg.Wait()

	entries, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 28)
}

func TestSnapshotIsDetachedFromStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	set, err := Snapshot(ctx, st)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, Entry{Name: "Legal and Political", Explanation: "edited later"}))

	explanation, ok := set.Explanation("Legal and Political")
	require.True(t, ok)
	assert.NotEqual(t, "edited later", explanation)
}

func TestSnapshotStoreError(t *testing.T) {
	st := new(MockStore)
	st.On("List", context.Background()).Return(nil, errors.New("redis down")).Once()

	_, err := Snapshot(context.Background(), st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	st.AssertExpectations(t)
}
