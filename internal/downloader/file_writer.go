package downloader

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/datallboy/gocast/internal/domain"
)

const partSuffix = ".part"

// FileWriter streams a download into a .part file next to its final path
// and only renames it into place once the body is complete, so a later run
// never mistakes a truncated file for a finished one.
type FileWriter struct {
	dir string
}

func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir}
}

// Path returns the final path for filename
func (fw *FileWriter) Path(filename string) string {
	return filepath.Join(fw.dir, filename)
}

// Exists reports whether filename is already present in the output dir
func (fw *FileWriter) Exists(filename string) (bool, error) {
	_, err := os.Stat(fw.Path(filename))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &domain.FilesystemError{Op: "stat", Path: fw.Path(filename), Err: err}
}

// EnsureDir creates the output directory if needed
func (fw *FileWriter) EnsureDir() error {
	if err := os.MkdirAll(fw.dir, 0755); err != nil {
		return &domain.FilesystemError{Op: "mkdir", Path: fw.dir, Err: err}
	}
	return nil
}

// WriteFrom copies r into filename. On any failure the partial file is
// removed and nothing is left at the final path.
func (fw *FileWriter) WriteFrom(filename string, r io.Reader) (int64, error) {
	finalPath := fw.Path(filename)
	partPath := finalPath + partSuffix

	f, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, &domain.FilesystemError{Op: "create", Path: partPath, Err: err}
	}

	src := &trackedReader{r: r}
	n, err := io.Copy(f, src)
	if err != nil {
		f.Close()
		os.Remove(partPath)
		if src.err != nil {
			// Body failed mid-stream, the caller owns that error
			return n, err
		}
		return n, &domain.FilesystemError{Op: "write", Path: partPath, Err: err}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(partPath)
		return n, &domain.FilesystemError{Op: "sync", Path: partPath, Err: err}
	}

	if err := f.Close(); err != nil {
		os.Remove(partPath)
		return n, &domain.FilesystemError{Op: "close", Path: partPath, Err: err}
	}

	if err := os.Rename(partPath, finalPath); err != nil {
		os.Remove(partPath)
		return n, &domain.FilesystemError{Op: "rename", Path: finalPath, Err: err}
	}

	return n, nil
}

// trackedReader remembers a read failure so copy errors can be attributed
// to the source or the destination.
type trackedReader struct {
	r   io.Reader
	err error
}

func (t *trackedReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF {
		t.err = err
	}
	return n, err
}
