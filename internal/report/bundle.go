package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
)

// BuildBundle packs per-filing ZIP payloads into one combined deflate ZIP.
// Entries are written in sorted name order so identical inputs always
// produce identical bundles.
func BuildBundle(entries map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, name := range names {
		fw, err := w.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to create bundle entry %s: %w", name, err)
		}
		if _, err := fw.Write(entries[name]); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to write bundle entry %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize bundle: %w", err)
	}
	return buf.Bytes(), nil
}
