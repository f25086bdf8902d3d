//go:build linux

package term

import "golang.org/x/sys/unix"

// ioctlGets/ioctlSetsFlush pick the termios ioctl numbers matching the
// source's tcgetattr/tcsetattr(..., TCSAFLUSH, ...).
const (
	ioctlGets      = unix.TCGETS
	ioctlSetsFlush = unix.TCSETSF
)
