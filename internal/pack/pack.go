// Package pack implements the packager (§6 "Output file", §7 IoError): it
// serializes an assembled project envelope and its costume assets into a
// ".sb3" ZIP archive, building the archive in a scratch directory before
// an atomic rename into place.
package pack

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kestrel-lang/js2sb3/internal/assemble"
	"github.com/kestrel-lang/js2sb3/internal/diag"
)

// AssetIDs returns the content ids referenced by a project's costumes, so
// the caller knows which files to look for in the asset directory.
func AssetIDs(project *assemble.Project) []string {
	seen := map[string]bool{}
	var ids []string
	for _, target := range project.Targets {
		for _, costume := range target.Costumes {
			if seen[costume.Md5Ext] {
				continue
			}
			seen[costume.Md5Ext] = true
			ids = append(ids, costume.Md5Ext)
		}
	}
	return ids
}

// Write serializes project to project.json and copies its referenced
// costume assets (verbatim, by content id) from assetDir into a ".sb3"
// ZIP archive at outputPath. outputPath is given the ".sb3" suffix if it
// does not already carry one.
func Write(project *assemble.Project, assetDir, outputPath string) (err error) {
	if !strings.HasSuffix(outputPath, ".sb3") {
		outputPath += ".sb3"
	}

	scratchDir, err := os.MkdirTemp("", "js2sb3-"+uuid.NewString())
	if err != nil {
		return &diag.IOError{Op: "mkdir", Path: scratchDir, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(scratchDir); rmErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove scratch directory %s: %v\n", scratchDir, rmErr)
		}
	}()

	scratchPath := filepath.Join(scratchDir, filepath.Base(outputPath))
	if writeErr := writeArchive(project, assetDir, scratchPath); writeErr != nil {
		return writeErr
	}

	if renameErr := os.Rename(scratchPath, outputPath); renameErr != nil {
		_ = os.Remove(scratchPath)
		return &diag.IOError{Op: "rename", Path: outputPath, Err: renameErr}
	}
	return nil
}

func writeArchive(project *assemble.Project, assetDir, scratchPath string) (err error) {
	f, err := os.Create(scratchPath)
	if err != nil {
		return &diag.IOError{Op: "create", Path: scratchPath, Err: err}
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = &diag.IOError{Op: "close", Path: scratchPath, Err: cerr}
		}
	}()

	zw := zip.NewWriter(f)
	defer func() {
		if cerr := zw.Close(); err == nil && cerr != nil {
			err = &diag.IOError{Op: "close-zip", Path: scratchPath, Err: cerr}
		}
	}()

	if err = writeProjectJSON(zw, project); err != nil {
		return err
	}
	if err = copyAssets(zw, assetDir, AssetIDs(project)); err != nil {
		return err
	}
	return nil
}

func writeProjectJSON(zw *zip.Writer, project *assemble.Project) error {
	w, err := zw.Create("project.json")
	if err != nil {
		return &diag.IOError{Op: "zip-create", Path: "project.json", Err: err}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(project); err != nil {
		return &diag.IOError{Op: "zip-encode", Path: "project.json", Err: err}
	}
	return nil
}

func copyAssets(zw *zip.Writer, assetDir string, ids []string) error {
	for _, id := range ids {
		srcPath := filepath.Join(assetDir, id)
		src, err := os.Open(srcPath)
		if err != nil {
			return &diag.IOError{Op: "open-asset", Path: srcPath, Err: err}
		}

		w, err := zw.Create(id)
		if err != nil {
			_ = src.Close()
			return &diag.IOError{Op: "zip-create", Path: id, Err: err}
		}
		if _, err := io.Copy(w, src); err != nil {
			_ = src.Close()
			return &diag.IOError{Op: "zip-copy", Path: id, Err: err}
		}
		if err := src.Close(); err != nil {
			return &diag.IOError{Op: "close-asset", Path: srcPath, Err: err}
		}
	}
	return nil
}
