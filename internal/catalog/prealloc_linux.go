//go:build linux

package catalog

import (
	"os"

	"golang.org/x/sys/unix"
)

// preallocate reserves size bytes for f without changing its length.
func preallocate(f *os.File, size int64) error {
	return unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size)
}
