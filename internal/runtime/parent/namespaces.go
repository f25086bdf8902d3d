package parent

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// EnterNamespaces joins the calling OS thread to the child's user and/or
// mount namespaces, per flags. The caller must have locked the goroutine to
// its OS thread first (runtime.LockOSThread) since setns changes the
// calling thread's namespace membership, not the whole process's
// (src/container/parent.rs::setns).
func EnterNamespaces(pid int, flags Flags) error {
	if flags.UserNS {
		if err := setnsPath(fmt.Sprintf("/proc/%d/ns/user", pid), unix.CLONE_NEWUSER); err != nil {
			return err
		}
	}
	if err := setnsPath(fmt.Sprintf("/proc/%d/ns/mnt", pid), unix.CLONE_NEWNS); err != nil {
		return err
	}
	return nil
}

func setnsPath(path string, nsType int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("parent: open %q: %w", path, err)
	}
	defer f.Close()
	if err := unix.Setns(int(f.Fd()), nsType); err != nil {
		return fmt.Errorf("parent: setns(%q): %w", path, err)
	}
	return nil
}
