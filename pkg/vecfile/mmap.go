package vecfile

import (
	"fmt"
	"syscall"
)

// mmapFile maps the first size bytes of fd read-write, shared with the
// page cache so writes are visible to other readers of the same file.
func mmapFile(fd int, size int64) ([]byte, error) {
	data, err := syscall.Mmap(fd, 0, int(size), syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}

	return data, nil
}

func munmap(data []byte) error {
	if data == nil {
		return nil
	}

	if err := syscall.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	return nil
}

// msync flushes dirty pages of data to disk synchronously.
func msync(data []byte) error {
	if data == nil {
		return nil
	}

	if err := unixMsync(data); err != nil {
		return fmt.Errorf("msync: %w", err)
	}

	return nil
}
