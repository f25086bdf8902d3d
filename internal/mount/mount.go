// Package mount is a typed wrapper over the kernel mount/unmount calls. It
// creates the destination (file or directory) when absent and records the
// flags and options a mount needs before the syscall is issued.
package mount

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Kind is the declared kind of a mount destination.
type Kind int

const (
	Dir Kind = iota
	File
)

func (k Kind) String() string {
	if k == Dir {
		return "directory"
	}
	return "file"
}

// ErrKindMismatch is returned by Mount.Do when the destination already
// exists on disk with a kind that disagrees with the declared one.
type ErrKindMismatch struct {
	Dest     string
	Declared Kind
	Actual   Kind
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("%s: declared as %s but exists as %s", e.Dest, e.Declared, e.Actual)
}

// Mount is a fluent configuration record for a single mount(2) call.
type Mount struct {
	dest   string
	kind   Kind
	src    string
	fsType string
	data   string
	flags  uintptr
}

// New builds a Mount targeting dest, declared to be of the given kind.
func New(dest string, kind Kind) *Mount {
	return &Mount{dest: dest, kind: kind}
}

func (m *Mount) Src(src string) *Mount {
	m.src = src
	return m
}

func (m *Mount) FSType(fsType string) *Mount {
	m.fsType = fsType
	return m
}

func (m *Mount) Data(data string) *Mount {
	m.data = data
	return m
}

func (m *Mount) Flags(flags uintptr) *Mount {
	m.flags = flags
	return m
}

func (m *Mount) AddFlag(flag uintptr) *Mount {
	m.flags |= flag
	return m
}

// Do creates the destination if it doesn't exist, validates its kind if it
// does, and performs the mount syscall with the collected fields.
func (m *Mount) Do() error {
	if err := ensureDest(m.dest, m.kind); err != nil {
		return err
	}
	if err := unix.Mount(m.src, m.dest, m.fsType, m.flags, m.data); err != nil {
		return fmt.Errorf("mount %q on %q (fstype=%q): %w", m.src, m.dest, m.fsType, err)
	}
	return nil
}

func ensureDest(dest string, kind Kind) error {
	info, err := os.Stat(dest)
	if err == nil {
		actual := Dir
		if !info.IsDir() {
			actual = File
		}
		if actual != kind {
			return &ErrKindMismatch{Dest: dest, Declared: kind, Actual: actual}
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %q: %w", dest, err)
	}
	if kind == File {
		f, createErr := os.OpenFile(dest, os.O_CREATE|os.O_EXCL, 0o644)
		if createErr != nil {
			return fmt.Errorf("create file %q: %w", dest, createErr)
		}
		return f.Close()
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("mkdir -p %q: %w", dest, err)
	}
	return nil
}

// UnMount is a fluent configuration record for a single umount2(2) call.
type UnMount struct {
	dest             string
	flags            int
	removeMountPoint bool
}

func NewUnMount(dest string) *UnMount {
	return &UnMount{dest: dest}
}

func (u *UnMount) Flags(flags int) *UnMount {
	u.flags = flags
	return u
}

func (u *UnMount) AddFlag(flag int) *UnMount {
	u.flags |= flag
	return u
}

func (u *UnMount) RemoveMountPoint(remove bool) *UnMount {
	u.removeMountPoint = remove
	return u
}

func (u *UnMount) Do() error {
	if err := unix.Unmount(u.dest, u.flags); err != nil {
		return fmt.Errorf("unmount %q: %w", u.dest, err)
	}
	if !u.removeMountPoint {
		return nil
	}
	info, err := os.Lstat(u.dest)
	if err != nil {
		return fmt.Errorf("cannot remove %q: %w", u.dest, err)
	}
	if !info.IsDir() && info.Mode().IsRegular() {
		if err := os.Remove(u.dest); err != nil {
			return fmt.Errorf("remove %q: %w", u.dest, err)
		}
		return nil
	}
	if info.IsDir() {
		if err := os.RemoveAll(u.dest); err != nil {
			return fmt.Errorf("remove %q: %w", u.dest, err)
		}
		return nil
	}
	return fmt.Errorf("cannot remove %q: not a file or directory", u.dest)
}
