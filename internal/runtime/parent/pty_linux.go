//go:build linux

package parent

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// unlockPTY is the TIOCSPTLCK equivalent of glibc's unlockpt(3): clear the
// pty master's lock flag so its slave can be opened.
func unlockPTY(fd int) error {
	var unlock int32
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(unix.TIOCSPTLCK), uintptr(unsafe.Pointer(&unlock)))
	if errno != 0 {
		return fmt.Errorf("parent: TIOCSPTLCK: %w", errno)
	}
	return nil
}

// ptyNumberOf is the TIOCGPTN equivalent of glibc's ptsname(3)'s numeric
// half: the pts index this master was allocated.
func ptyNumberOf(fd int) (int, error) {
	var n int32
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(unix.TIOCGPTN), uintptr(unsafe.Pointer(&n)))
	if errno != 0 {
		return 0, fmt.Errorf("parent: TIOCGPTN: %w", errno)
	}
	return int(n), nil
}
