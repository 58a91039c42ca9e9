package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unbarrel/internal/crawler"
	"unbarrel/internal/extractor"
)

func TestBuild(t *testing.T) {
	cr := crawler.New(extractor.New())
	idx, err := Build(cr, "testdata", "src")
	require.NoError(t, err)

	absSrc, err := filepath.Abs(filepath.Join("testdata", "src"))
	require.NoError(t, err)
	assert.Equal(t, absSrc, idx.Root)

	t.Run("Direct Declarations Indexed", func(t *testing.T) {
		alpha, ok := idx.Lookup("Alpha")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(absSrc, "a.ts"), alpha)

		beta, ok := idx.Lookup("Beta")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(absSrc, "sub", "b.ts"), beta)

		gamma, ok := idx.Lookup("Gamma")
		require.True(t, ok)
		assert.Equal(t, filepath.Join(absSrc, "sub", "b.ts"), gamma)
	})

	t.Run("Reexports Not Indexed", func(t *testing.T) {
		// a.ts re-exports Beta; only the declaring file may win.
		beta, _ := idx.Lookup("Beta")
		assert.NotEqual(t, filepath.Join(absSrc, "a.ts"), beta)
		// index.ts carries only a wildcard and contributes nothing.
		assert.Equal(t, 3, idx.Len())
	})
}

func TestBuild_MissingRoot(t *testing.T) {
	cr := crawler.New(extractor.New())
	idx, err := Build(cr, "testdata", "no-such-dir")
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestLookup_NilSafe(t *testing.T) {
	var idx *ExportIndex
	_, ok := idx.Lookup("Anything")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
}
