package parent

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// OpenPTYMaster opens the child's own devpts instance's ptmx node — not the
// host's /dev/ptmx — since the parent must already be setns'd into the
// child's mount namespace (EnterNamespaces) for "/dev/pts/ptmx" to resolve
// to that instance. It unlocks the resulting pty master (the equivalent of
// grantpt+unlockpt) and returns its fd and allocated pty number.
func OpenPTYMaster() (fd int, ptyNumber int, err error) {
	fd, err = unix.Open("/dev/pts/ptmx", unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return -1, 0, fmt.Errorf("parent: open /dev/pts/ptmx: %w", err)
	}

	if err := unlockPTY(fd); err != nil {
		unix.Close(fd)
		return -1, 0, err
	}

	n, err := ptyNumberOf(fd)
	if err != nil {
		unix.Close(fd)
		return -1, 0, err
	}

	return fd, n, nil
}
