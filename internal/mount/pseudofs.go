package mount

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// deviceNodes lists the device files bind-mounted from the old root into
// the fresh /dev tmpfs; devpts/tmpfs alone don't provide these.
var deviceNodes = []string{"null", "random", "full", "tty", "zero", "urandom"}

// MountPseudoFilesystems mounts /proc, /dev, /dev/pts, /dev/mqueue,
// /dev/shm, and bind-mounts the standard device nodes from
// "/<oldrootName>/dev" onto their /dev counterparts, in the mandatory order
// from the child initializer's step 5. /sys is deliberately not mounted:
// the kernel refuses it in combination with an unprivileged user namespace
// that doesn't also own the network namespace.
func MountPseudoFilesystems(oldrootName string) error {
	if err := New("/proc", Dir).
		Src("proc").
		FSType("proc").
		AddFlag(unix.MS_NODEV).
		AddFlag(unix.MS_NOSUID).
		AddFlag(unix.MS_NOEXEC).
		Do(); err != nil {
		return fmt.Errorf("mount /proc: %w", err)
	}

	if err := New("/dev", Dir).
		Src("tmpfs").
		FSType("tmpfs").
		AddFlag(unix.MS_NOSUID).
		Data("mode=755").
		Do(); err != nil {
		return fmt.Errorf("mount /dev: %w", err)
	}

	if err := New("/dev/pts", Dir).
		Src("devpts").
		FSType("devpts").
		AddFlag(unix.MS_NOSUID).
		AddFlag(unix.MS_NOEXEC).
		Data("mode=620,ptmxmode=666").
		Do(); err != nil {
		return fmt.Errorf("mount /dev/pts: %w", err)
	}

	if err := New("/dev/mqueue", Dir).
		Src("mqueue").
		FSType("mqueue").
		Do(); err != nil {
		return fmt.Errorf("mount /dev/mqueue: %w", err)
	}

	if err := New("/dev/shm", Dir).
		Src("tmpfs").
		FSType("tmpfs").
		Do(); err != nil {
		return fmt.Errorf("mount /dev/shm: %w", err)
	}

	for _, node := range deviceNodes {
		src := filepath.Join("/", oldrootName, "dev", node)
		dest := filepath.Join("/dev", node)
		if err := New(dest, File).
			Src(src).
			FSType("bind").
			AddFlag(unix.MS_BIND).
			Do(); err != nil {
			return fmt.Errorf("bind-mount device node %q: %w", node, err)
		}
	}

	return nil
}
