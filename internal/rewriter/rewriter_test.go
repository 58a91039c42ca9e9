package rewriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unbarrel/internal/extractor"
	"unbarrel/internal/index"
	"unbarrel/internal/resolver"
)

func newTestRewriter(t *testing.T) *Rewriter {
	t.Helper()
	res := resolver.New(extractor.New(), &index.ExportIndex{Entries: map[string]string{}})
	return New(res)
}

func TestPlanFile(t *testing.T) {
	rw := newTestRewriter(t)

	plan, err := rw.PlanFile(filepath.Join("testdata", "app", "pages", "home.ts"))
	require.NoError(t, err)
	require.Len(t, plan.Edits, 1, "only the barrel import should be rewritten")

	edit := plan.Edits[0]
	assert.Equal(t, "../ui", edit.Decl.Source)
	assert.Equal(t, 1, edit.Decl.StartLine)

	require.Len(t, edit.Lines, 4)
	assert.Equal(t, "import { Button } from '../ui/button';", edit.Lines[0])
	assert.Equal(t, "import { Chip as Label } from '../ui/chip';", edit.Lines[1])
	// VERSION is declared in the barrel's own index file; it stays on
	// the original specifier.
	assert.Equal(t, "import { VERSION } from '../ui';", edit.Lines[2])
	assert.Equal(t, "import { useMemoOne } from 'use-memo-one';", edit.Lines[3])
}

func TestPlanFile_SkipsUnrewritable(t *testing.T) {
	rw := newTestRewriter(t)

	plan, err := rw.PlanFile(filepath.Join("testdata", "app", "pages", "imports.ts"))
	require.NoError(t, err)
	// Default, namespace, side-effect and non-barrel imports are all
	// left untouched.
	assert.Empty(t, plan.Edits)
}

func TestPlanFile_DoubleQuotes(t *testing.T) {
	rw := newTestRewriter(t)
	rw.SetQuote(`"`)

	plan, err := rw.PlanFile(filepath.Join("testdata", "app", "pages", "home.ts"))
	require.NoError(t, err)
	require.Len(t, plan.Edits, 1)
	assert.Equal(t, `import { Button } from "../ui/button";`, plan.Edits[0].Lines[0])
}

func TestApply(t *testing.T) {
	dir := t.TempDir()

	// Rebuild a miniature app in a scratch dir so Apply can write.
	uiDir := filepath.Join(dir, "ui")
	pagesDir := filepath.Join(dir, "pages")
	require.NoError(t, os.MkdirAll(uiDir, 0o755))
	require.NoError(t, os.MkdirAll(pagesDir, 0o755))

	write := func(path, content string) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write(filepath.Join(uiDir, "index.ts"), "export { Button } from './button';\n")
	write(filepath.Join(uiDir, "button.ts"), "export const Button = () => null;\n")
	page := filepath.Join(pagesDir, "home.ts")
	write(page, "import { Button } from '../ui';\n\nexport const Home = () => Button;\n")

	rw := newTestRewriter(t)
	plan, err := rw.PlanFile(page)
	require.NoError(t, err)
	require.Len(t, plan.Edits, 1)

	require.NoError(t, Apply(plan))

	got, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Equal(t, "import { Button } from '../ui/button';\n\nexport const Home = () => Button;\n", string(got))

	// A second pass finds nothing left to rewrite.
	plan, err = rw.PlanFile(page)
	require.NoError(t, err)
	assert.Empty(t, plan.Edits)
}

func TestStripSourceExt(t *testing.T) {
	assert.Equal(t, "a/b", stripSourceExt("a/b.ts"))
	assert.Equal(t, "a/b", stripSourceExt("a/b.tsx"))
	assert.Equal(t, "a/b.css", stripSourceExt("a/b.css"))
	assert.False(t, strings.HasSuffix(stripSourceExt("x.jsx"), ".jsx"))
}
