// Package runtime holds the types shared between the parent initializer
// (internal/runtime/parent) and the child initializer
// (internal/runtime/child): the handshake protocol and the configuration
// the parent serializes across the init pipe to the freshly cloned child,
// generalizing the teacher's stageOptions/readInitInfo exchange in
// container.go to the fuller namespace/pivot/pty pipeline this runtime
// implements.
package runtime

// ChildConfig is everything the child initializer needs to build its root
// filesystem, enter it, and exec the target command. The parent marshals
// this as JSON onto the child's config pipe immediately after Start. It
// carries enough of the Image's configuration to reconstruct it inside the
// child: the image itself cannot cross the pipe (it's an interface value
// over host-only state like open descriptors), but a host or guest image
// is fully described by a handful of paths, which do serialize.
type ChildConfig struct {
	ImageKind string `json:"imageKind"` // "host" or "guest"

	// Host image fields (ImageKind == "host").
	HostMountpoint       string   `json:"hostMountpoint,omitempty"`
	HostUpperdir         string   `json:"hostUpperdir,omitempty"`
	HostWorkdir          string   `json:"hostWorkdir,omitempty"`
	HostTmpdir           string   `json:"hostTmpdir,omitempty"`
	HostAdditionalLowers []string `json:"hostAdditionalLowers,omitempty"`

	// Guest image fields (ImageKind == "guest"): the already-merged
	// per-container rootfs path to bind-mount onto itself.
	GuestContainerPath string `json:"guestContainerPath,omitempty"`

	Hostname   string   `json:"hostname"`
	UseUserNS  bool     `json:"useUserNS"`
	ScratchDir string   `json:"scratchDir"`
	Command    []string `json:"command"`
}

// Handshake byte values exchanged over the two pipes described in the
// parent/child protocol: the child signals /dev/pts readiness, the parent
// signals the pty master is unlocked.
const (
	ByteDevptsReady    byte = '1'
	ByteMasterUnlocked byte = '2'
)

// Env var names used to hand the three extra file descriptors (config
// read end, child-to-parent handshake write end, parent-to-child
// handshake read end) to the re-exec'd child process, mirroring the
// teacher's INIT_PIPE environment variable convention.
const (
	EnvConfigFD        = "ORCA_CONFIG_FD"
	EnvChildToParentFD = "ORCA_CHILD_TO_PARENT_FD"
	EnvParentToChildFD = "ORCA_PARENT_TO_CHILD_FD"
)
