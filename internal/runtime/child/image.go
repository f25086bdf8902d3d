package child

import (
	"fmt"

	"orca/internal/image"
	"orca/internal/runtime"
)

// mountImage rebuilds and mounts the Image the parent configured, from the
// subset of its fields that crossed the config pipe. The child never talks
// to a registry or VCS directly — by the time it runs, image materialization
// is already done; all that remains is this process's own Mount() call,
// which must run after entering the fresh mount namespace.
func mountImage(cfg runtime.ChildConfig) error {
	switch cfg.ImageKind {
	case "host":
		img := image.NewHostImage(cfg.HostMountpoint, cfg.HostUpperdir, cfg.HostWorkdir, cfg.HostTmpdir, cfg.HostAdditionalLowers)
		return img.Mount()
	case "guest":
		return image.BindSelf(cfg.GuestContainerPath)
	default:
		return fmt.Errorf("child: unknown image kind %q", cfg.ImageKind)
	}
}

// rootfsPath returns the path the child should pivot_root into, matching
// whichever image kind cfg describes.
func rootfsPath(cfg runtime.ChildConfig) string {
	if cfg.ImageKind == "host" {
		return cfg.HostMountpoint
	}
	return cfg.GuestContainerPath
}
