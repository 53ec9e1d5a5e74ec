package vecfile

import "syscall"

func unixMsync(data []byte) error {
	return syscall.Msync(data, syscall.MS_SYNC)
}
