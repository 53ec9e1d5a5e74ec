// Package fsatomic provides a small filesystem abstraction and an atomic,
// durable file writer built on top of it.
package fsatomic

import (
	"io"
	"os"
)

// File represents an OS-backed open file descriptor, satisfied by
// [os.File]. Fd must return a descriptor usable with syscalls such as
// [syscall.Flock] until the file is closed.
type File interface {
	io.ReadWriteCloser
	io.Seeker

	Fd() uintptr
	Stat() (os.FileInfo, error)
	Sync() error
	Chmod(mode os.FileMode) error
}

// FS defines the filesystem operations needed to write files atomically.
// Implementations must be safe for concurrent use by multiple goroutines.
type FS interface {
	OpenFile(path string, flag int, perm os.FileMode) (File, error)
	ReadFile(path string) ([]byte, error)
	Open(path string) (File, error)
	Remove(path string) error
	Rename(oldpath, newpath string) error
}

// Real implements FS using the real filesystem.
type Real struct{}

// NewReal returns a new Real filesystem.
func NewReal() *Real { return &Real{} }

func (r *Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

func (r *Real) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (r *Real) Open(path string) (File, error) { return os.Open(path) }

func (r *Real) Remove(path string) error { return os.Remove(path) }

func (r *Real) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

var _ FS = (*Real)(nil)
