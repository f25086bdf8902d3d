// Package registry pulls container images from an OCI/Docker registry and
// extracts their layers, in squash order, onto disk. It implements
// image.Downloader, grounded on src/image/image_downloader.rs's
// download_from_dockerhub (bearer token, manifest fetch, per-layer
// tarball download and extraction) but delegates auth, manifest
// negotiation, and transport to google/go-containerregistry rather than
// hand-rolling registry HTTP, matching how the rest of the pack (notably
// onkernel-hypeman/lib/registry) leans on that library for OCI plumbing.
package registry

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/remote"
)

// Puller fetches an image's layers from a registry and unpacks them,
// lowest layer first, into a destination directory.
type Puller struct {
	// Platform pins the image variant to pull (default linux/amd64).
	OS, Arch string
}

// NewPuller returns a Puller targeting linux/amd64 images, the only
// platform the runtime's namespace and pivot_root machinery supports.
func NewPuller() *Puller {
	return &Puller{OS: "linux", Arch: "amd64"}
}

// Download resolves name:tag against its registry (defaulting to Docker
// Hub library/<name> the way image_downloader.rs does for bare names),
// fetches its manifest, and extracts every layer into dest in order, so
// that later layers correctly shadow earlier ones via OCI whiteouts.
func (p *Puller) Download(ctx context.Context, imageName, tag, dest string) error {
	ref, err := name.ParseReference(refString(imageName, tag))
	if err != nil {
		return fmt.Errorf("registry: parse reference %q:%q: %w", imageName, tag, err)
	}

	img, err := remote.Image(ref,
		remote.WithContext(ctx),
		remote.WithPlatform(v1.Platform{OS: p.OS, Architecture: p.Arch}),
	)
	if err != nil {
		return fmt.Errorf("registry: fetch manifest for %s: %w", ref, err)
	}

	layers, err := img.Layers()
	if err != nil {
		return fmt.Errorf("registry: list layers for %s: %w", ref, err)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("registry: create %q: %w", dest, err)
	}

	for i, layer := range layers {
		if err := extractLayer(layer, dest); err != nil {
			return fmt.Errorf("registry: extract layer %d/%d of %s: %w", i+1, len(layers), ref, err)
		}
	}
	return nil
}

// refString mirrors ImageDownloader::new's bare-name handling: an image
// name with no slash is assumed to live under the Docker Hub "library"
// namespace.
func refString(imageName, tag string) string {
	if !strings.Contains(imageName, "/") {
		imageName = "library/" + imageName
	}
	return imageName + ":" + tag
}

// extractLayer streams one layer's uncompressed tar onto dest, applying
// the same whiteout conventions copyTree uses when merging an image tree
// into a per-container tree:
// ".wh.<name>" removes a path that existed in an earlier layer, and
// ".wh..wh..opq" clears a directory of everything contributed so far.
func extractLayer(layer v1.Layer, dest string) error {
	rc, err := layer.Uncompressed()
	if err != nil {
		return fmt.Errorf("open layer: %w", err)
	}
	defer rc.Close()

	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}
		if err := extractEntry(tr, hdr, dest); err != nil {
			return err
		}
	}
}

func extractEntry(r io.Reader, hdr *tar.Header, dest string) error {
	name := filepath.Clean(hdr.Name)
	if name == "." {
		return nil
	}
	base := filepath.Base(name)
	dir := filepath.Dir(name)

	if base == ".wh..wh..opq" {
		return clearDestDir(filepath.Join(dest, dir))
	}
	if target, ok := strings.CutPrefix(base, ".wh."); ok {
		return os.RemoveAll(filepath.Join(dest, dir, target))
	}

	destPath := filepath.Join(dest, name)
	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(destPath, hdr.FileInfo().Mode().Perm())
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
		if err != nil {
			return fmt.Errorf("create %q: %w", destPath, err)
		}
		defer f.Close()
		if _, err := io.Copy(f, r); err != nil {
			return fmt.Errorf("write %q: %w", destPath, err)
		}
		return nil
	case tar.TypeSymlink:
		_ = os.Remove(destPath)
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return err
		}
		return os.Symlink(hdr.Linkname, destPath)
	case tar.TypeLink:
		return os.Link(filepath.Join(dest, filepath.Clean(hdr.Linkname)), destPath)
	default:
		return nil
	}
}

func clearDestDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
