package vecfile

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/calvinalkan/hloo/pkg/hlooerrors"
)

// lockExclusive acquires a non-blocking exclusive flock(2) on fd, the data
// file's own descriptor (there is no separate lock file; vecfile locks the
// inode it maps). Returns [hlooerrors.ErrBusy] if another process or
// in-process holder already owns it.
func lockExclusive(fd int) error {
	if err := flockRetryEINTR(fd, syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
			return hlooerrors.ErrBusy
		}

		return fmt.Errorf("flock: %w", err)
	}

	return nil
}

func unlock(fd int) error {
	if err := flockRetryEINTR(fd, syscall.LOCK_UN); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}

	return nil
}

// flockRetryEINTR retries flock(2) on EINTR rather than surfacing it as a
// failure, since a signal interrupting the syscall is not a real lock
// conflict.
func flockRetryEINTR(fd int, how int) error {
	const maxEINTRRetries = 10000

	var err error

	for range maxEINTRRetries {
		err = syscall.Flock(fd, how)
		if err == nil || !errors.Is(err, syscall.EINTR) {
			return err
		}
	}

	return err
}
