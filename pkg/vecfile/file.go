package vecfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/calvinalkan/hloo/pkg/bits"
	"github.com/calvinalkan/hloo/pkg/fsatomic"
	"github.com/calvinalkan/hloo/pkg/hlooerrors"
)

// File is a memory-mapped, exclusively-locked, sorted vector of (key,
// value) elements: a 16-byte header followed by a packed element array.
// Each element is a key of f/w little-endian w-bit words followed by a
// value encoded with Codec. The file is locked for File's entire lifetime;
// call Destroy or Close to release it.
type File[V any] struct {
	f, w     int
	keyBytes int
	elemSize int
	codec    Codec[V]

	path   string
	osFile *os.File
	fd     int
	data   []byte // full mapping: header + payload
	length int
}

// Create creates (or truncates) the file at path, locks it exclusively,
// and initializes an empty vector with the given signature.
func Create[V any](path string, f, w int, codec Codec[V], signature uint64) (*File[V], error) {
	osFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("vecfile: create %s: %w", path, err)
	}

	fd := int(osFile.Fd())

	if err := lockExclusive(fd); err != nil {
		_ = osFile.Close()

		return nil, fmt.Errorf("vecfile: create %s: %w", path, err)
	}

	if err := osFile.Truncate(headerSize); err != nil {
		_ = unlock(fd)
		_ = osFile.Close()

		return nil, fmt.Errorf("vecfile: create %s: truncate header: %w", path, err)
	}

	data, err := mmapFile(fd, headerSize)
	if err != nil {
		_ = unlock(fd)
		_ = osFile.Close()

		return nil, fmt.Errorf("vecfile: create %s: %w", path, err)
	}

	vf := &File[V]{
		f:        f,
		w:        w,
		keyBytes: f / 8,
		elemSize: f/8 + codec.Size(),
		codec:    codec,
		path:     path,
		osFile:   osFile,
		fd:       fd,
		data:     data,
		length:   0,
	}

	header{Signature: signature, Length: 0}.encode(vf.data)

	if err := vf.Flush(); err != nil {
		_ = vf.closeMapping()

		return nil, fmt.Errorf("vecfile: create %s: %w", path, err)
	}

	return vf, nil
}

// Open opens an existing file, locks it exclusively, and validates its
// header against the expected signature.
func Open[V any](path string, f, w int, codec Codec[V], expectedSignature uint64) (*File[V], error) {
	osFile, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("vecfile: open %s: %w", path, err)
	}

	fd := int(osFile.Fd())

	if err := lockExclusive(fd); err != nil {
		_ = osFile.Close()

		return nil, fmt.Errorf("vecfile: open %s: %w", path, err)
	}

	info, err := osFile.Stat()
	if err != nil {
		_ = unlock(fd)
		_ = osFile.Close()

		return nil, fmt.Errorf("vecfile: open %s: stat: %w", path, err)
	}

	size := info.Size()
	elemSize := f/8 + codec.Size()

	if size < headerSize {
		_ = unlock(fd)
		_ = osFile.Close()

		return nil, &hlooerrors.UninitializedVectorError{Path: path, FileSize: size, ExpectedSize: headerSize}
	}

	data, err := mmapFile(fd, size)
	if err != nil {
		_ = unlock(fd)
		_ = osFile.Close()

		return nil, fmt.Errorf("vecfile: open %s: %w", path, err)
	}

	h := decodeHeader(data)

	wantSize := headerSize + int64(h.Length)*int64(elemSize)
	if size != wantSize {
		_ = munmap(data)
		_ = unlock(fd)
		_ = osFile.Close()

		return nil, &hlooerrors.UninitializedVectorError{Path: path, FileSize: size, ExpectedSize: wantSize}
	}

	if h.Signature != expectedSignature {
		_ = munmap(data)
		_ = unlock(fd)
		_ = osFile.Close()

		return nil, &hlooerrors.SignatureMismatchError{Expected: expectedSignature, Actual: h.Signature, Path: path}
	}

	return &File[V]{
		f:        f,
		w:        w,
		keyBytes: f / 8,
		elemSize: elemSize,
		codec:    codec,
		path:     path,
		osFile:   osFile,
		fd:       fd,
		data:     data,
		length:   int(h.Length),
	}, nil
}

// Len reports the number of elements currently stored.
func (vf *File[V]) Len() int { return vf.length }

func (vf *File[V]) recordOffset(i int) int { return headerSize + i*vf.elemSize }

// KeyAt returns a copy of the key stored at index i.
func (vf *File[V]) KeyAt(i int) bits.Bits {
	off := vf.recordOffset(i)

	k, err := bits.FromBytesLittleEndian(vf.f, vf.w, vf.data[off:off+vf.keyBytes])
	if err != nil {
		panic(err) // unreachable: on-disk record width always matches f/w
	}

	return k
}

// ValueAt returns a copy of the value stored at index i.
func (vf *File[V]) ValueAt(i int) V {
	off := vf.recordOffset(i) + vf.keyBytes

	return vf.codec.Decode(vf.data[off : off+vf.elemSize-vf.keyBytes])
}

func (vf *File[V]) setRecord(i int, key bits.Bits, value V) {
	off := vf.recordOffset(i)

	kb, err := key.ToBytesLittleEndian(vf.w)
	if err != nil {
		panic(err) // unreachable: caller keys always share the file's (f, w)
	}

	copy(vf.data[off:off+vf.keyBytes], kb)
	vf.codec.Encode(value, vf.data[off+vf.keyBytes:off+vf.elemSize])
}

// resize flushes, truncates the file to header + newLen elements, and
// remaps the payload. The mapping is dropped and rebuilt around the
// truncate since not every platform permits resizing a mapped file.
func (vf *File[V]) resize(newLen int) error {
	if err := vf.Flush(); err != nil {
		return err
	}

	if err := munmap(vf.data); err != nil {
		return err
	}

	vf.data = nil

	newSize := int64(headerSize) + int64(newLen)*int64(vf.elemSize)
	if err := vf.osFile.Truncate(newSize); err != nil {
		return fmt.Errorf("vecfile: %s: resize truncate: %w", vf.path, err)
	}

	data, err := mmapFile(vf.fd, newSize)
	if err != nil {
		return fmt.Errorf("vecfile: %s: resize remap: %w", vf.path, err)
	}

	vf.data = data
	vf.length = newLen

	header{Signature: decodeHeader(data).Signature, Length: uint64(newLen)}.encode(vf.data)

	return nil
}

// InsertSorted appends items and re-sorts the entire element range by key,
// producing a fully sorted result regardless of the input order.
func (vf *File[V]) InsertSorted(items []Item[V]) error {
	oldLen := vf.length

	if err := vf.resize(oldLen + len(items)); err != nil {
		return err
	}

	for i, it := range items {
		vf.setRecord(oldLen+i, it.Key, it.Value)
	}

	vf.sortRange()

	return vf.Flush()
}

func (vf *File[V]) sortRange() {
	idxs := make([]int, vf.length)
	for i := range idxs {
		idxs[i] = i
	}

	keys := make([]bits.Bits, vf.length)
	values := make([]V, vf.length)

	for i := 0; i < vf.length; i++ {
		keys[i] = vf.KeyAt(i)
		values[i] = vf.ValueAt(i)
	}

	sort.Slice(idxs, func(a, b int) bool { return keys[idxs[a]].Compare(keys[idxs[b]]) < 0 })

	for pos, orig := range idxs {
		vf.setRecord(pos, keys[orig], values[orig])
	}
}

// RemoveMatching deletes every element for which predicate(key, value) is
// true, preserving sort order among survivors, and shrinks the file.
func (vf *File[V]) RemoveMatching(predicate func(key bits.Bits, value V) bool) error {
	survivors := 0

	keys := make([]bits.Bits, 0, vf.length)
	values := make([]V, 0, vf.length)

	for i := 0; i < vf.length; i++ {
		k, v := vf.KeyAt(i), vf.ValueAt(i)
		if predicate(k, v) {
			continue
		}

		keys = append(keys, k)
		values = append(values, v)
		survivors++
	}

	for i := 0; i < survivors; i++ {
		vf.setRecord(i, keys[i], values[i])
	}

	if err := vf.resize(survivors); err != nil {
		return err
	}

	return vf.Flush()
}

// Flush synchronizes dirty mapped pages and the underlying file descriptor.
func (vf *File[V]) Flush() error {
	if err := msync(vf.data); err != nil {
		return fmt.Errorf("vecfile: %s: %w", vf.path, err)
	}

	if err := vf.osFile.Sync(); err != nil {
		return fmt.Errorf("vecfile: %s: fsync: %w", vf.path, err)
	}

	return nil
}

func (vf *File[V]) closeMapping() error {
	munmapErr := munmap(vf.data)
	vf.data = nil

	unlockErr := unlock(vf.fd)
	closeErr := vf.osFile.Close()

	switch {
	case munmapErr != nil:
		return munmapErr
	case unlockErr != nil:
		return unlockErr
	default:
		return closeErr
	}
}

// Close flushes and releases the mapping and lock without removing the
// file.
func (vf *File[V]) Close() error {
	if err := vf.Flush(); err != nil {
		_ = vf.closeMapping()

		return err
	}

	return vf.closeMapping()
}

// Destroy unmaps, unlocks, and removes the underlying file.
func (vf *File[V]) Destroy() error {
	if err := vf.closeMapping(); err != nil {
		return err
	}

	if err := os.Remove(vf.path); err != nil {
		return fmt.Errorf("vecfile: destroy %s: %w", vf.path, err)
	}

	return nil
}

// CopyTo flushes and writes an atomic copy of the file's current contents
// to destPath, leaving this File's own path and mapping untouched.
func (vf *File[V]) CopyTo(destPath string) error {
	if err := vf.Flush(); err != nil {
		return err
	}

	raw, err := os.ReadFile(vf.path)
	if err != nil {
		return fmt.Errorf("vecfile: copy %s to %s: %w", vf.path, destPath, err)
	}

	writer := fsatomic.NewWriter(fsatomic.NewReal())
	if err := writer.WriteWithDefaults(destPath, raw); err != nil {
		return fmt.Errorf("vecfile: copy %s to %s: %w", vf.path, destPath, err)
	}

	return nil
}

// MoveTo flushes and renames the file to destPath. On POSIX, rename
// preserves the existing descriptor and mapping, so no remap is needed.
func (vf *File[V]) MoveTo(destPath string) error {
	if err := vf.Flush(); err != nil {
		return err
	}

	if err := os.Rename(vf.path, destPath); err != nil {
		return fmt.Errorf("vecfile: move %s to %s: %w", vf.path, destPath, err)
	}

	vf.path = destPath

	return nil
}
