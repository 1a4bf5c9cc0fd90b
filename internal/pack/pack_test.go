package pack_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/kestrel-lang/js2sb3/internal/assemble"
	"github.com/kestrel-lang/js2sb3/internal/jsparser"
	"github.com/kestrel-lang/js2sb3/internal/lower"
	"github.com/kestrel-lang/js2sb3/internal/pack"
	"github.com/kestrel-lang/js2sb3/internal/symbols"
	"github.com/stretchr/testify/require"
)

func buildProject(t *testing.T, src string) *assemble.Project {
	t.Helper()
	program, err := jsparser.Parse(src, "test.js")
	require.NoError(t, err)
	table := symbols.Analyze(program)
	store, root := lower.Lower(program, table)
	require.NoError(t, lower.Validate(store, root))
	project, err := assemble.Assemble(store, table)
	require.NoError(t, err)
	return project
}

func writeStubAssets(t *testing.T, dir string, ids []string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id), []byte("<svg></svg>"), 0o644))
	}
}

func TestWrite_ProducesZipWithProjectJSONAndAssets(t *testing.T) {
	project := buildProject(t, `let x = 10;`)
	assetDir := t.TempDir()
	writeStubAssets(t, assetDir, pack.AssetIDs(project))

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "game")

	require.NoError(t, pack.Write(project, assetDir, outPath))

	finalPath := outPath + ".sb3"
	_, err := os.Stat(finalPath)
	require.NoError(t, err)

	zr, err := zip.OpenReader(finalPath)
	require.NoError(t, err)
	defer zr.Close()

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	require.True(t, names["project.json"])
	for _, id := range pack.AssetIDs(project) {
		require.True(t, names[id], "missing asset %s in archive", id)
	}
}

func TestWrite_AppendsSb3SuffixWhenMissing(t *testing.T) {
	project := buildProject(t, `let x = 1;`)
	assetDir := t.TempDir()
	writeStubAssets(t, assetDir, pack.AssetIDs(project))

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "noSuffix")

	require.NoError(t, pack.Write(project, assetDir, outPath))

	_, err := os.Stat(outPath + ".sb3")
	require.NoError(t, err)
}

func TestWrite_FailsWhenAssetMissing(t *testing.T) {
	project := buildProject(t, `let x = 1;`)
	assetDir := t.TempDir() // deliberately left empty

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "game")

	err := pack.Write(project, assetDir, outPath)
	require.Error(t, err)

	_, statErr := os.Stat(outPath + ".sb3")
	require.Error(t, statErr)
}

func TestWrite_CleansUpScratchDirectoryOnSuccess(t *testing.T) {
	project := buildProject(t, `let x = 1;`)
	assetDir := t.TempDir()
	writeStubAssets(t, assetDir, pack.AssetIDs(project))

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "game")

	require.NoError(t, pack.Write(project, assetDir, outPath))

	entries, err := os.ReadDir(os.TempDir())
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), "js2sb3-", "scratch directory was not cleaned up: %s", e.Name())
	}
}
