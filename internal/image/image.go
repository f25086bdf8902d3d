// Package image defines the container image abstraction: Host images
// (overlay using the real "/" as a lower layer) and Guest images (overlay or
// bind atop a previously materialized layer tree), behind one interface.
package image

// Image is any value that can provide a mounted rootfs for a container
// launch.
type Image interface {
	// Mount establishes the container's root filesystem. It returns once
	// the result is ready to be pivot_root'd into.
	Mount() error
	// RootfsPath is the absolute path the child will pivot to.
	RootfsPath() string
	// Name is the short label used for the hostname inside the container.
	Name() string
	// NeedUserNS reports whether this image requires an unprivileged user
	// namespace (Guest images do; Host images rely on already being root or
	// a setuid invocation).
	NeedUserNS() bool
}
