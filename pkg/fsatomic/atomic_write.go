package fsatomic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// ErrDirSync indicates the parent directory could not be synced after
// rename. The new file is in place but durability is not guaranteed.
var ErrDirSync = errors.New("fsatomic: dir sync")

// Writer writes files atomically using a temp-file-then-rename sequence.
type Writer struct {
	fs FS
}

// NewWriter creates a Writer backed by fs. Panics if fs is nil.
func NewWriter(fs FS) *Writer {
	if fs == nil {
		panic("fsatomic: fs is nil")
	}

	return &Writer{fs: fs}
}

// WriteOptions configures Write.
type WriteOptions struct {
	// SyncDir controls whether the parent directory is synced after rename.
	SyncDir bool

	// Perm is the file's permission bits, always chmod'd explicitly.
	Perm os.FileMode
}

// DefaultOptions returns {SyncDir: true, Perm: 0o644}.
func (*Writer) DefaultOptions() WriteOptions {
	return WriteOptions{SyncDir: true, Perm: 0o644}
}

// Write writes data to path atomically and durably: it writes a temp file
// in the same directory, syncs it, renames it over path, then syncs the
// parent directory if opts.SyncDir is set.
func (w *Writer) Write(path string, data []byte, opts WriteOptions) error {
	if path == "" {
		return errors.New("fsatomic: path is empty")
	}

	if opts.Perm == 0 {
		return errors.New("fsatomic: opts.Perm must be non-zero")
	}

	dir, base := filepath.Split(path)
	if base == "" || base == string(os.PathSeparator) || base == "." {
		return fmt.Errorf("fsatomic: invalid path %q", path)
	}

	if dir == "" {
		dir = "."
	}

	dir = filepath.Clean(dir)

	tmpFile, tmpPath, err := createTempFile(w.fs, dir, base, opts.Perm)
	if err != nil {
		return err
	}

	cleanup := func() error {
		return errors.Join(closeNamed(tmpPath, tmpFile), removeIfExists(w.fs, tmpPath))
	}

	if err := tmpFile.Chmod(opts.Perm); err != nil {
		return errors.Join(fmt.Errorf("fsatomic: chmod temp file %q: %w", tmpPath, err), cleanup())
	}

	if err := writeAndSync(tmpFile, tmpPath, data); err != nil {
		return errors.Join(err, cleanup())
	}

	if err := w.fs.Rename(tmpPath, path); err != nil {
		return errors.Join(fmt.Errorf("fsatomic: rename: %w", err), cleanup())
	}

	_ = cleanup()

	if opts.SyncDir {
		if err := fsyncDir(w.fs, dir); err != nil {
			return err
		}
	}

	return nil
}

// WriteWithDefaults writes data atomically using DefaultOptions.
func (w *Writer) WriteWithDefaults(path string, data []byte) error {
	return w.Write(path, data, w.DefaultOptions())
}

func writeAndSync(file File, path string, data []byte) error {
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("fsatomic: write temp file %q: %w", path, err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("fsatomic: sync temp file %q: %w", path, err)
	}

	return nil
}

const maxTempFileAttempts = 10000

var tempFileCounter atomic.Uint64

func createTempFile(fs FS, dir, base string, perm os.FileMode) (File, string, error) {
	for range maxTempFileAttempts {
		seq := tempFileCounter.Add(1)
		path := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", base, seq))

		file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return file, path, nil
		}

		if os.IsExist(err) {
			continue
		}

		return nil, "", fmt.Errorf("fsatomic: create temp file: %w", err)
	}

	return nil, "", fmt.Errorf("fsatomic: exhausted temp file attempts in %q", dir)
}

func fsyncDir(fs FS, dirPath string) error {
	dirFd, err := fs.Open(dirPath)
	if err != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("open dir %q: %w", dirPath, err))
	}

	if err := dirFd.Sync(); err != nil {
		return errors.Join(ErrDirSync, fmt.Errorf("%q: %w", dirPath, err), closeNamed(dirPath, dirFd))
	}

	return closeNamed(dirPath, dirFd)
}

func closeNamed(path string, file File) error {
	if err := file.Close(); err != nil {
		return fmt.Errorf("fsatomic: close %q: %w", path, err)
	}

	return nil
}

func removeIfExists(fs FS, path string) error {
	err := fs.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("fsatomic: remove temp file %q: %w", path, err)
	}

	return nil
}
