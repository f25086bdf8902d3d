package image

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"orca/internal/mount"
)

const guestRootfsName = "rootfs"

// Downloader fetches and extracts an image's layers into dest. It is the
// external collaborator GuestImage delegates registry I/O to (see
// internal/registry.Puller).
type Downloader interface {
	Download(ctx context.Context, name, tag, dest string) error
}

// GuestImage overlays a previously materialized layer tree: an image
// rootfs, merged once per container into a per-container copy.
type GuestImage struct {
	rootfsPrefix  string
	imageName     string
	imageTag      string
	containerName string
	downloader    Downloader

	imagePath     string
	containerPath string
}

// NewGuestImage lays out prefix/name/tag/rootfs for the materialized image
// and prefix/name/tag/container_name/rootfs for the per-container copy.
// Slashes in imageName (e.g. "library/debian") are replaced with
// underscores for the on-disk path.
func NewGuestImage(rootfsPrefix, imageName, imageTag, containerName string, downloader Downloader) *GuestImage {
	safeName := strings.ReplaceAll(imageName, "/", "_")
	imageRoot := filepath.Join(rootfsPrefix, safeName, imageTag)
	return &GuestImage{
		rootfsPrefix:  rootfsPrefix,
		imageName:     imageName,
		imageTag:      imageTag,
		containerName: containerName,
		downloader:    downloader,
		imagePath:     filepath.Join(imageRoot, guestRootfsName),
		containerPath: filepath.Join(imageRoot, containerName, guestRootfsName),
	}
}

// ExistsImage reports whether the materialized image tree is present.
func (g *GuestImage) ExistsImage() bool {
	_, err := os.Stat(g.imagePath)
	return err == nil
}

// ExistsContainer reports whether the per-container copy is present.
func (g *GuestImage) ExistsContainer() bool {
	_, err := os.Stat(g.containerPath)
	return err == nil
}

// Download pulls the image's layers via the configured Downloader.
func (g *GuestImage) Download(ctx context.Context) error {
	if err := os.MkdirAll(g.imagePath, 0o755); err != nil {
		return fmt.Errorf("guest image: create %q: %w", g.imagePath, err)
	}
	return g.downloader.Download(ctx, g.imageName, g.imageTag, g.imagePath)
}

// CreateContainerImage merges the image tree over a fresh per-container
// tree, so that container-local writes never touch the shared image.
func (g *GuestImage) CreateContainerImage() error {
	if err := os.MkdirAll(g.containerPath, 0o755); err != nil {
		return fmt.Errorf("guest image: create %q: %w", g.containerPath, err)
	}
	return copyTree(g.imagePath, g.containerPath)
}

// RemoveImage deletes the materialized image tree.
func (g *GuestImage) RemoveImage() error {
	return os.RemoveAll(g.imagePath)
}

// RemoveContainer deletes the per-container copy.
func (g *GuestImage) RemoveContainer() error {
	return os.RemoveAll(g.containerPath)
}

// ContainerPath is the absolute path to the per-container rootfs copy.
func (g *GuestImage) ContainerPath() string { return g.containerPath }

// Mount bind-mounts containerPath onto itself: required so that a later
// pivot_root can succeed (the kernel requires the new root to be a mount
// point).
func (g *GuestImage) Mount() error {
	return BindSelf(g.containerPath)
}

// BindSelf bind-mounts path onto itself, recursively. Both GuestImage.Mount
// and the child initializer's reconstruction of a guest image from a
// runtime.ChildConfig (which carries only the already-merged container
// path, not a full GuestImage) use this directly.
func BindSelf(path string) error {
	return mount.New(path, mount.Dir).
		Src(path).
		FSType("bind").
		AddFlag(unix.MS_BIND).
		AddFlag(unix.MS_REC).
		Do()
}

func (g *GuestImage) RootfsPath() string { return g.containerPath }
func (g *GuestImage) Name() string       { return g.containerName }
func (g *GuestImage) NeedUserNS() bool   { return true }
