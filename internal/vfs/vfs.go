// Package vfs provides the file-system abstraction and atomic writer
// (spec §4.B, §6.2). The capability surface is afero's Fs interface: a
// real-FS implementation (afero.NewOsFs) and an in-memory mock
// (afero.NewMemMapFs) for tests. The mock has no hooks for injecting
// failures.
package vfs

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/afero"
)

// FS is the capability set the core depends on. It is satisfied directly
// by afero.Fs plus the read/write-all convenience methods afero.Afero adds.
type FS interface {
	Exists(path string) (bool, error)
	ReadAll(path string) ([]byte, error)
	WriteAll(path string, data []byte) error
	MoveReplace(src, dst string) error
	Delete(path string) error
	ReadStream(path string) (io.ReadCloser, error)
	WriteStream(path string) (io.WriteCloser, error)
}

// aferoFS adapts an afero.Fs to the FS capability set above.
type aferoFS struct {
	afero.Afero
}

// NewFS wraps an afero.Fs (afero.NewOsFs() for the real file system,
// afero.NewMemMapFs() for the in-memory test double).
func NewFS(fs afero.Fs) FS {
	return &aferoFS{Afero: afero.Afero{Fs: fs}}
}

// NewOSFS returns the default host-file-system-backed implementation.
func NewOSFS() FS {
	return NewFS(afero.NewOsFs())
}

// NewMemFS returns an in-memory mock implementation suitable for tests.
func NewMemFS() FS {
	return NewFS(afero.NewMemMapFs())
}

func (f *aferoFS) Exists(path string) (bool, error) {
	return f.Afero.Exists(path)
}

func (f *aferoFS) ReadAll(path string) ([]byte, error) {
	return f.Afero.ReadFile(path)
}

func (f *aferoFS) WriteAll(path string, data []byte) error {
	return f.Afero.WriteFile(path, data, 0o644)
}

func (f *aferoFS) MoveReplace(src, dst string) error {
	return f.Afero.Rename(src, dst)
}

func (f *aferoFS) Delete(path string) error {
	return f.Afero.Remove(path)
}

func (f *aferoFS) ReadStream(path string) (io.ReadCloser, error) {
	return f.Afero.Open(path)
}

func (f *aferoFS) WriteStream(path string) (io.WriteCloser, error) {
	return f.Afero.Create(path)
}

// ErrCancelled is returned when an async operation observes ctx.Done()
// before completing (spec §5 Cancellation).
var ErrCancelled = errors.New("vfs: operation cancelled")

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrCancelled
	default:
		return nil
	}
}
