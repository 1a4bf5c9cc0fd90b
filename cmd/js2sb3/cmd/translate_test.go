package cmd

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateOnce_WritesValidSb3Archive(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "game.js")
	require.NoError(t, os.WriteFile(inputPath, []byte(`let x = 10;`), 0o644))

	assetDir := filepath.Join(dir, "assets")
	require.NoError(t, os.MkdirAll(assetDir, 0o755))

	outputPath := filepath.Join(dir, "game.sb3")
	err := translateOnce(inputPath, outputPath, assetDir, false, false)
	require.Error(t, err, "expected failure: no costume assets present in assetDir")

	writeBlankSVG(t, assetDir, "cd21514d0531fdffb22204e0ec5ed84a.svg")
	writeBlankSVG(t, assetDir, "bcf454acf82e4504149f7ffe07081dbc.svg")

	require.NoError(t, translateOnce(inputPath, outputPath, assetDir, false, false))

	zr, err := zip.OpenReader(outputPath)
	require.NoError(t, err)
	defer zr.Close()

	found := false
	for _, f := range zr.File {
		if f.Name == "project.json" {
			found = true
		}
	}
	require.True(t, found, "archive must contain project.json")
}

func TestTranslateOnce_ReportsFeatureGateViolation(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "game.js")
	require.NoError(t, os.WriteFile(inputPath, []byte(`console.log("hi");`), 0o644))

	err := translateOnce(inputPath, filepath.Join(dir, "out.sb3"), dir, false, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "console.log")
}

func TestTranslateOnce_ReportsParseError(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "game.js")
	require.NoError(t, os.WriteFile(inputPath, []byte(`let x = ;`), 0o644))

	err := translateOnce(inputPath, filepath.Join(dir, "out.sb3"), dir, false, false)
	require.Error(t, err)
}

func TestColorEnabled_RespectsExplicitModes(t *testing.T) {
	require.True(t, colorEnabled("always"))
	require.False(t, colorEnabled("never"))
}

func writeBlankSVG(t *testing.T, assetDir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(assetDir, name), []byte("<svg></svg>"), 0o644))
}
