package words

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
)

func TestLoad_CorpusIsDeduplicatedAndBigEnough(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.GreaterOrEqual(t, c.Len(), engine.GridSize)

	seen := make(map[string]bool, c.Len())
	for _, w := range c.words {
		require.NotEmpty(t, w)
		require.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func TestSample_DistinctWords(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	sample := c.Sample(engine.GridSize)
	require.Len(t, sample, engine.GridSize)

	seen := make(map[string]bool)
	for _, w := range sample {
		require.False(t, seen[w], "sample repeated %q", w)
		seen[w] = true
	}
}

func TestGrid_FullyPopulated(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	grid := c.Grid()
	for i, w := range grid {
		require.NotEmpty(t, w, "grid cell %d empty", i)
	}
}
