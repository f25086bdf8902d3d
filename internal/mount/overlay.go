package mount

import (
	"fmt"
	"os"
	"strings"
)

const overlayFSType = "overlay"

// Overlay describes one OverlayFS mount: a merged view at Mountpoint backed
// by Upperdir (writable), Workdir (scratch, same filesystem as Upperdir),
// and an ordered stack of Lowerdirs (read-only, first entry wins).
type Overlay struct {
	Mountpoint string
	Upperdir   string
	Workdir    string
	Lowerdirs  []string
}

// EnsureDirs creates Mountpoint, Upperdir, and Workdir if they are absent.
// Lowerdirs are expected to already exist (they come from either the host
// root or previously committed snapshot layers).
func (o *Overlay) EnsureDirs() error {
	for _, dir := range []string{o.Mountpoint, o.Upperdir, o.Workdir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("mkdir -p %q: %w", dir, err)
			}
		}
	}
	return nil
}

// Data renders the overlay mount options string: "lowerdir=a:b,upperdir=c,workdir=d".
func (o *Overlay) Data() (string, error) {
	for _, l := range o.Lowerdirs {
		if strings.Contains(l, ":") {
			return "", fmt.Errorf("lowerdir %q contains a colon, which overlayfs cannot parse", l)
		}
	}
	lower := strings.Join(o.Lowerdirs, ":")
	return fmt.Sprintf("lowerdir=%s,upperdir=%s,workdir=%s", lower, o.Upperdir, o.Workdir), nil
}

// Mount builds the directories (if needed) and performs the overlay mount.
func (o *Overlay) Mount() error {
	if err := o.EnsureDirs(); err != nil {
		return err
	}
	data, err := o.Data()
	if err != nil {
		return err
	}
	return New(o.Mountpoint, Dir).FSType(overlayFSType).Data(data).Do()
}
