package parent

import (
	"fmt"
	stdruntime "runtime"

	"orca/internal/image"
	"orca/internal/ioconn"
	"orca/internal/runtime"
	"orca/internal/term"
)

// Launched is everything the orchestrator needs once a container is up:
// its pid for waiting, the io pump moving bytes between the parent's own
// stdio and the pty master, and the terminal wrapper so the parent's own
// stdin can be switched to raw mode for the session's duration.
type Launched struct {
	Handle    *Handle
	Connector *ioconn.Connector
	ParentTTY *term.Terminal
}

// Launch runs the full parent half of the container launch pipeline:
// clone, id-map, join the child's namespaces long enough to open its pty
// master, run the §4.7.1 handshake, and start the io pump. childInitArgv is
// the argv used to re-exec this binary as the child initializer (see
// internal/runtime/child).
func Launch(childInitArgv []string, img image.Image, scratchDir string, netns bool, command []string) (*Launched, error) {
	flags := Flags{UserNS: img.NeedUserNS(), NetNS: netns}

	cfg := runtime.ChildConfig{
		Hostname:   img.Name(),
		UseUserNS:  flags.UserNS,
		ScratchDir: scratchDir,
		Command:    command,
	}
	switch v := img.(type) {
	case *image.HostImage:
		cfg.ImageKind = "host"
		cfg.HostMountpoint = v.RootfsPath()
		cfg.HostUpperdir = v.Upperdir()
		cfg.HostWorkdir = v.Workdir()
		cfg.HostTmpdir = v.Tmpdir()
		cfg.HostAdditionalLowers = v.AdditionalLowers()
	case *image.GuestImage:
		cfg.ImageKind = "guest"
		cfg.GuestContainerPath = v.RootfsPath()
	default:
		return nil, fmt.Errorf("parent: unsupported image type %T", img)
	}

	h, err := Clone(childInitArgv, flags, cfg)
	if err != nil {
		return nil, err
	}

	if flags.UserNS {
		if HelpersAvailable() {
			err = MapIDWithHelper(h.Process.Pid)
		} else {
			err = MapID(h.Process.Pid)
		}
		if err != nil {
			_ = h.Process.Kill()
			return nil, fmt.Errorf("parent: map child ids: %w", err)
		}
	}

	if err := awaitDevptsReady(h); err != nil {
		_ = h.Process.Kill()
		return nil, err
	}

	// setns changes only the calling OS thread's namespace membership; lock
	// this goroutine to its thread for the rest of the process lifetime so
	// no other goroutine is ever scheduled onto a thread that has quietly
	// joined the child's namespaces.
	stdruntime.LockOSThread()

	if err := EnterNamespaces(h.Process.Pid, flags); err != nil {
		_ = h.Process.Kill()
		return nil, err
	}

	masterFd, _, err := OpenPTYMaster()
	if err != nil {
		_ = h.Process.Kill()
		return nil, err
	}

	if err := signalMasterUnlocked(h); err != nil {
		return nil, err
	}
	h.Close()

	parentTTY, err := term.Open(0)
	if err != nil {
		return nil, fmt.Errorf("parent: open controlling terminal: %w", err)
	}
	if err := parentTTY.MakeRaw(); err != nil {
		return nil, err
	}

	connector, err := ioconn.New(0, 1, masterFd)
	if err != nil {
		_ = parentTTY.Close()
		return nil, err
	}

	return &Launched{Handle: h, Connector: connector, ParentTTY: parentTTY}, nil
}

// Teardown stops the io pump and restores the parent's terminal, regardless
// of how the container exited.
func (l *Launched) Teardown() error {
	connErr := l.Connector.Stop()
	ttyErr := l.ParentTTY.Close()
	if connErr != nil {
		return connErr
	}
	return ttyErr
}
