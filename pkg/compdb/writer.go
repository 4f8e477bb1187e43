package compdb

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// DefaultFileName is the conventional compilation database name.
const DefaultFileName = "compile_commands.json"

// FileWriter writes a database to a temporary file next to its
// destination and moves it into place on Commit. The destination is left
// untouched when the walk fails or the content did not change.
type FileWriter struct {
	path string
	tmp  *os.File
}

// Create opens the temporary file for path. It fails when the
// destination directory is not writable.
func Create(path string) (*FileWriter, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to set output file mode: %w", err)
	}
	return &FileWriter{path: path, tmp: tmp}, nil
}

// Path returns the destination path.
func (w *FileWriter) Path() string {
	return w.path
}

// Writer exposes the temporary file for streamed output.
func (w *FileWriter) Writer() io.Writer {
	return w.tmp
}

// WriteRecords encodes records as one indented JSON array.
func (w *FileWriter) WriteRecords(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if _, err := w.tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// Commit closes the temporary file and renames it over the destination.
// It reports whether the destination changed; identical content is
// detected by hash and leaves the existing file (and its mtime) alone.
func (w *FileWriter) Commit() (bool, error) {
	tmpPath := w.tmp.Name()
	if err := w.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("failed to close output file: %w", err)
	}

	newHash, err := HashFile(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return false, err
	}
	oldHash, err := HashFile(w.path)
	if err == nil && oldHash == newHash {
		_ = os.Remove(tmpPath)
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = os.Remove(tmpPath)
		return false, err
	}

	// Rename is atomic on POSIX.
	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("failed to rename output file: %w", err)
	}
	return true, nil
}

// Abort discards the temporary file.
func (w *FileWriter) Abort() {
	_ = w.tmp.Close()
	_ = os.Remove(w.tmp.Name())
}

// Encode renders records as an indented JSON array with a trailing newline.
func Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return buf.Bytes(), nil
}

// HashFile computes the xxHash64 of a file's contents as hex.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
