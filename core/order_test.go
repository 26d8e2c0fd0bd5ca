package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("NEW>RUNNING>DONE")
	require.NoError(t, err)
	assert.Equal(t, 3, order.Len())
	assert.Equal(t, []string{"NEW", "RUNNING", "DONE"}, order.States())

	rank, ok := order.Rank("NEW")
	assert.True(t, ok)
	assert.Equal(t, 0, rank)
	rank, ok = order.Rank("DONE")
	assert.True(t, ok)
	assert.Equal(t, 2, rank)

	_, ok = order.Rank("PENDING")
	assert.False(t, ok)
}

func TestParseOrder_RanksDistinctAndIncreasing(t *testing.T) {
	order, err := ParseOrder("A>B>C>D>E")
	require.NoError(t, err)

	seen := make(map[int]bool)
	for i, state := range order.States() {
		rank, ok := order.Rank(state)
		require.True(t, ok)
		assert.Equal(t, i, rank)
		assert.GreaterOrEqual(t, rank, 0)
		assert.Less(t, rank, order.Len())
		assert.False(t, seen[rank], "rank %d assigned twice", rank)
		seen[rank] = true
	}
}

func TestParseOrder_TrimsBlankSegments(t *testing.T) {
	order, err := ParseOrder(" NEW > RUNNING >> DONE ")
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW", "RUNNING", "DONE"}, order.States())
}

func TestParseOrder_Empty(t *testing.T) {
	_, err := ParseOrder("")
	assert.Error(t, err)

	_, err = ParseOrder(" > > ")
	assert.Error(t, err)
}

func TestNewStateOrder_Duplicate(t *testing.T) {
	_, err := NewStateOrder([]string{"NEW", "RUNNING", "NEW"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestStateOrder_Between(t *testing.T) {
	order, err := ParseOrder("A>B>C>D>E")
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "D"}, order.Between(0, 4))
	assert.Equal(t, []string{"C"}, order.Between(1, 3))
	assert.Nil(t, order.Between(1, 2))
	assert.Nil(t, order.Between(3, 3))
}

func TestStateOrder_StatesIsACopy(t *testing.T) {
	order, err := ParseOrder("A>B")
	require.NoError(t, err)

	states := order.States()
	states[0] = "MUTATED"
	assert.Equal(t, []string{"A", "B"}, order.States())
}

func TestLoadOrderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.yaml")
	content := "states:\n  - NEW\n  - RUNNING\n  - DONE\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	order, err := LoadOrderFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW", "RUNNING", "DONE"}, order.States())
}

func TestLoadOrderFile_Missing(t *testing.T) {
	_, err := LoadOrderFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrderFile_EmptyStates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.yaml")
	require.NoError(t, os.WriteFile(path, []byte("states: []\n"), 0o600))

	_, err := LoadOrderFile(path)
	assert.Error(t, err)
}
