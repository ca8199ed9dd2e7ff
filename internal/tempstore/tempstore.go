// Package tempstore persists uploads on local disk for the duration of one
// analysis and removes them afterwards.
package tempstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/mediaguard/internal/media"
)

// ErrTooLarge is returned by Save when the body exceeds the store's size limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// Store writes uploads under a single directory.
type Store struct {
	dir      string
	maxBytes int64
}

// New returns a Store rooted at dir, creating it if needed. A maxBytes of zero
// disables the size limit.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string { return s.dir }

// Save writes body to a new file named after filename. Every call gets its own
// path so concurrent uploads with the same name never collide. On error no
// file is left behind.
func (s *Store) Save(filename string, body io.Reader) (*File, error) {
	name := media.SanitizeFilename(filename)
	path := filepath.Join(s.dir, uuid.NewString()+"-"+name)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	f := &File{path: path, name: name}

	src := body
	if s.maxBytes > 0 {
		src = io.LimitReader(body, s.maxBytes+1)
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = f.Remove()
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	return f, nil
}

// File is a handle to one saved upload.
type File struct {
	path string
	name string

	once sync.Once
	err  error
}

// Path returns the absolute or store-relative location of the file on disk.
func (f *File) Path() string { return f.path }

// Name returns the sanitized filename, without the unique prefix.
func (f *File) Name() string { return f.name }

// Remove deletes the file. It is safe to call any number of times; a file that
// is already gone is not an error.
func (f *File) Remove() error {
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.err = fmt.Errorf("remove temp file: %w", err)
		}
	})
	return f.err
}
