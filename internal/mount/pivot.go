package mount

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// PivotRoot bind-mounts newRoot onto itself (the kernel requires the new
// root to be a mount point), creates newRoot/oldrootName, and calls
// pivot_root(newRoot, newRoot/oldrootName). It does not detach or remove
// the old root — that is the caller's job once it has finished reading
// anything it still needs from /<oldrootName> (src/container/child.rs's
// pivot_root, generalized to a reusable helper instead of a single Child
// method).
func PivotRoot(newRoot, oldrootName string) error {
	if err := New(newRoot, Dir).
		Src(newRoot).
		FSType("bind").
		AddFlag(unix.MS_BIND).
		AddFlag(unix.MS_REC).
		Do(); err != nil {
		return fmt.Errorf("bind-mount new root %q onto itself: %w", newRoot, err)
	}

	oldroot := filepath.Join(newRoot, oldrootName)
	if err := os.MkdirAll(oldroot, 0o700); err != nil {
		return fmt.Errorf("create old root dir %q: %w", oldroot, err)
	}

	if err := unix.PivotRoot(newRoot, oldroot); err != nil {
		return fmt.Errorf("pivot_root(%q, %q): %w", newRoot, oldroot, err)
	}
	return nil
}

// DetachOldRoot lazily unmounts "/<oldrootName>" and removes the now-empty
// directory. Called only after every file the child still needs from the
// pre-pivot root (e.g. a stashed resolv.conf) has been copied out.
func DetachOldRoot(oldrootName string) error {
	path := "/" + oldrootName
	if err := unix.Unmount(path, unix.MNT_DETACH); err != nil {
		return fmt.Errorf("detach old root %q: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove old root dir %q: %w", path, err)
	}
	return nil
}
