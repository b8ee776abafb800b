package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Entry is one file to place in an archive.
type Entry struct {
	Name     string
	Path     string
	Modified time.Time
}

// WriteFiles streams entries into a zip archive on w. Images are already
// compressed, so entries are stored rather than deflated.
func WriteFiles(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if err := addFile(zw, e); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, e Entry) error {
	f, err := os.Open(e.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", e.Name, err)
	}
	defer f.Close()

	name := e.Name
	if name == "" {
		name = filepath.Base(e.Path)
	}
	hdr := &zip.FileHeader{Name: name, Method: zip.Store, Modified: e.Modified}
	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
