// Package archive bundles produced report artifacts into a single zip file.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Bundle writes the named files into a zip at zipPath, storing each under its
// base name. Missing inputs fail the bundle; partial zips are removed.
func Bundle(zipPath string, files []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create bundle %s: %w", zipPath, err)
	}

	w := zip.NewWriter(out)
	for _, file := range files {
		if err := addFile(w, file); err != nil {
			w.Close()
			out.Close()
			os.Remove(zipPath)
			return err
		}
	}

	if err := w.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize bundle: %w", err)
	}
	return out.Close()
}

func addFile(w *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("bundle input %s: %w", path, err)
	}
	defer in.Close()

	entry, err := w.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("bundle entry %s: %w", path, err)
	}
	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("bundle copy %s: %w", path, err)
	}
	return nil
}
