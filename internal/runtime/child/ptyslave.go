package child

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"orca/internal/mount"
)

// ptmxSymlink is a var rather than a const so tests can point it at a
// scratch directory instead of requiring a real /dev.
var ptmxSymlink = "/dev/ptmx"

// ensurePtmxSymlink creates /dev/ptmx -> pts/ptmx if it doesn't already
// exist (step 8); some base images ship it, others don't, and devpts
// relies on it for legacy pty-opening code paths inside the container.
func ensurePtmxSymlink() error {
	if _, err := os.Lstat(ptmxSymlink); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("child: stat %q: %w", ptmxSymlink, err)
	}
	if err := os.Symlink("pts/ptmx", ptmxSymlink); err != nil {
		return fmt.Errorf("child: symlink %q: %w", ptmxSymlink, err)
	}
	return nil
}

// attachControllingTTY starts a new session, opens the pty slave the
// parent just unlocked the master of, attaches it to stdin/stdout/stderr,
// and bind-mounts /oldroot/dev/console onto /dev/console (step 10).
func attachControllingTTY(oldrootName string) error {
	if _, err := unix.Setsid(); err != nil {
		return fmt.Errorf("child: setsid: %w", err)
	}

	slave, err := unix.Open("/dev/pts/0", unix.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("child: open /dev/pts/0: %w", err)
	}
	defer unix.Close(slave)

	for _, fd := range []int{unix.Stdin, unix.Stdout, unix.Stderr} {
		if err := unix.Dup2(slave, fd); err != nil {
			return fmt.Errorf("child: dup2 pty slave onto fd %d: %w", fd, err)
		}
	}

	return mount.New("/dev/console", mount.File).
		Src("/"+oldrootName+"/dev/console").
		FSType("bind").
		AddFlag(unix.MS_BIND).
		Do()
}
