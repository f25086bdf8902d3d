package child

import (
	"fmt"
	"os"
	"strconv"

	"orca/internal/runtime"
)

// pipes are the child's three inherited file descriptors: the config pipe
// (read once, early) and the two handshake pipes, kept open across the
// exec boundary by fd number (see cmd/orca's re-exec of __child_init).
type pipes struct {
	config        *os.File
	childToParent *os.File
	parentToChild *os.File
}

func openPipes() (*pipes, error) {
	config, err := fdFromEnv(runtime.EnvConfigFD, "config")
	if err != nil {
		return nil, err
	}
	toParent, err := fdFromEnv(runtime.EnvChildToParentFD, "child-to-parent")
	if err != nil {
		return nil, err
	}
	toChild, err := fdFromEnv(runtime.EnvParentToChildFD, "parent-to-child")
	if err != nil {
		return nil, err
	}
	return &pipes{config: config, childToParent: toParent, parentToChild: toChild}, nil
}

func fdFromEnv(envVar, label string) (*os.File, error) {
	raw := os.Getenv(envVar)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("child: invalid %s fd %q: %w", label, raw, err)
	}
	return os.NewFile(uintptr(n), label), nil
}

// signalDevptsReady tells the parent /dev/pts is mounted and it may now
// open the pty master (step 6).
func (p *pipes) signalDevptsReady() error {
	if _, err := p.childToParent.Write([]byte{runtime.ByteDevptsReady}); err != nil {
		return fmt.Errorf("child: signal devpts-ready: %w", err)
	}
	return nil
}

// awaitMasterUnlocked blocks until the parent signals the pty master is
// open and unlocked (step 9). A single blocking read, not a retry loop.
func (p *pipes) awaitMasterUnlocked() error {
	var buf [1]byte
	if _, err := p.parentToChild.Read(buf[:]); err != nil {
		return fmt.Errorf("child: await master-unlocked signal: %w", err)
	}
	if buf[0] != runtime.ByteMasterUnlocked {
		return fmt.Errorf("child: unexpected handshake byte %q, want master-unlocked", buf[0])
	}
	return nil
}
