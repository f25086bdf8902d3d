package parent

import (
	"fmt"

	"orca/internal/runtime"
)

// awaitDevptsReady blocks on a single read until the child signals it has
// mounted /dev/pts, per §4.7.1. This is a single blocking read, not a
// retry/poll loop: the read simply waits for the write that pairs with it.
func awaitDevptsReady(h *Handle) error {
	var buf [1]byte
	if _, err := h.childToParentRead.Read(buf[:]); err != nil {
		return fmt.Errorf("parent: await devpts-ready signal: %w", err)
	}
	if buf[0] != runtime.ByteDevptsReady {
		return fmt.Errorf("parent: unexpected handshake byte %q, want devpts-ready", buf[0])
	}
	return nil
}

// signalMasterUnlocked tells the child the pty master has been opened and
// unlocked, so it may proceed to open its slave.
func signalMasterUnlocked(h *Handle) error {
	if _, err := h.parentToChildWrite.Write([]byte{runtime.ByteMasterUnlocked}); err != nil {
		return fmt.Errorf("parent: signal master-unlocked: %w", err)
	}
	return nil
}

// Close releases the handshake pipes still held open after Launch
// completes handoff.
func (h *Handle) Close() {
	h.childToParentRead.Close()
	h.parentToChildWrite.Close()
}
