package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inscope/internal/core/config"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestService(t *testing.T, root string) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.WatchPaths = []string{root}
	cfg.DB.Enabled = false

	s, err := New(cfg, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestInitialScanAndReports(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/exports.ex": `
defmodule Exports do
  def visible(x), do: x
  defp hidden, do: :ok
end
`,
		"lib/client.ex": `
defmodule Client do
  import Exports
  import Missing.Dep
end
`,
		"_build/generated.ex": "defmodule Generated do\nend\n",
		"README.md":           "not source\n",
	})

	s := newTestService(t, root)
	require.NoError(t, s.InitialScan(context.Background()))

	// _build is excluded by default, README has the wrong extension.
	assert.Equal(t, 2, s.Index.FileCount())

	reports, err := s.Reports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.True(t, reports[0].Resolved)
	assert.Equal(t, "Exports", reports[0].Target)
	assert.Equal(t, []string{"visible/1"}, reports[0].Clauses)

	assert.False(t, reports[1].Resolved)
	assert.Equal(t, "import Missing.Dep", reports[1].Text)

	unresolved, err := s.Unresolved(context.Background())
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "import Missing.Dep", unresolved[0].Text)
}

func TestReportsShowArityRanges(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/exports.ex": `
defmodule Exports do
  def spread(a, b \\ 1), do: a
end
`,
		"lib/client.ex": `
defmodule Client do
  import Exports
end
`,
	})

	s := newTestService(t, root)
	require.NoError(t, s.InitialScan(context.Background()))

	reports, err := s.Reports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, []string{"spread/1..2"}, reports[0].Clauses)
}

func TestApplyChangesRemovesDeletedFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/exports.ex": "defmodule Exports do\n  def f(x), do: x\nend\n",
	})

	s := newTestService(t, root)
	require.NoError(t, s.InitialScan(context.Background()))
	require.Equal(t, 1, s.Index.ContainerCount())

	path := filepath.Join(root, "lib/exports.ex")
	require.NoError(t, os.Remove(path))
	s.ApplyChanges([]string{path})

	assert.Equal(t, 0, s.Index.ContainerCount())
}

func TestClauseStorePersistsAcrossServices(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/exports.ex": "defmodule Exports do\n  def f(x), do: x\nend\n",
	})

	cfg := config.Default()
	cfg.WatchPaths = []string{root}
	cfg.DB.Enabled = true
	cfg.DB.Path = filepath.Join(t.TempDir(), "clauses.db")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	first, err := New(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, first.InitialScan(context.Background()))
	require.NoError(t, first.Close(context.Background()))

	second, err := New(cfg, logger)
	require.NoError(t, err)
	defer func() { _ = second.Close(context.Background()) }()

	recs, err := second.store.LookupContainer("Exports")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "f", recs[0].Name)
}

func TestScanDirectoriesRejectsBadPatterns(t *testing.T) {
	s := newTestService(t, t.TempDir())

	_, err := s.ScanDirectories([]string{"."}, []string{"[bad"}, nil)
	assert.Error(t, err)
}
