package image

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"

	"orca/internal/mount"
)

// HostImage overlays the current host root. Its mount sequence builds a
// "fake" overlay whose sole lowerdir is "/" so that the real overlay can
// treat the whole host root as a single uniform lower layer alongside any
// additional committed snapshot layers.
type HostImage struct {
	mountpoint       string
	upperdir         string
	workdir          string
	additionalLowers []string
	tmpdir           string
}

// NewHostImage configures a host-overlay image. Directories are created on
// Mount if absent.
func NewHostImage(mountpoint, upperdir, workdir, tmpdir string, additionalLowerdirs []string) *HostImage {
	return &HostImage{
		mountpoint:       mountpoint,
		upperdir:         upperdir,
		workdir:          workdir,
		tmpdir:           tmpdir,
		additionalLowers: additionalLowerdirs,
	}
}

func (h *HostImage) fakeOverlay() *mount.Overlay {
	return &mount.Overlay{
		Mountpoint: filepath.Join(h.tmpdir, "fake_rootfs"),
		Upperdir:   filepath.Join(h.tmpdir, "fake_upper"),
		Workdir:    filepath.Join(h.tmpdir, "fake_work"),
		Lowerdirs:  []string{"/"},
	}
}

func (h *HostImage) mainOverlay(fakeRootfs string) *mount.Overlay {
	lowerdirs := append(append([]string{}, h.additionalLowers...), fakeRootfs)
	return &mount.Overlay{
		Mountpoint: h.mountpoint,
		Upperdir:   h.upperdir,
		Workdir:    h.workdir,
		Lowerdirs:  lowerdirs,
	}
}

// Mount remounts "/" private+recursive, builds the fake host-root overlay,
// then builds the main overlay on top of it plus any additional lowerdirs
// (committed snapshot layers, newest first, so that a newer layer shadows
// an older one).
func (h *HostImage) Mount() error {
	if err := mount.New("/", mount.Dir).
		AddFlag(unix.MS_PRIVATE).
		AddFlag(unix.MS_REC).
		Do(); err != nil {
		return fmt.Errorf("host image: make '/' private: %w", err)
	}

	fake := h.fakeOverlay()
	if err := fake.Mount(); err != nil {
		return fmt.Errorf("host image: mount fake rootfs overlay: %w", err)
	}

	main := h.mainOverlay(fake.Mountpoint)
	if err := main.Mount(); err != nil {
		return fmt.Errorf("host image: mount main overlay: %w", err)
	}
	return nil
}

func (h *HostImage) RootfsPath() string { return h.mountpoint }
func (h *HostImage) Name() string       { return "host" }
func (h *HostImage) NeedUserNS() bool   { return false }

// Upperdir, Workdir, Tmpdir, and AdditionalLowers expose the overlay
// configuration so the child initializer can reconstruct an equivalent
// HostImage from a runtime.ChildConfig after crossing the config pipe.
func (h *HostImage) Upperdir() string           { return h.upperdir }
func (h *HostImage) Workdir() string            { return h.workdir }
func (h *HostImage) Tmpdir() string             { return h.tmpdir }
func (h *HostImage) AdditionalLowers() []string { return h.additionalLowers }
