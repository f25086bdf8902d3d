package child

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

const (
	uidMapPollInterval = 50 * time.Millisecond
	uidMapPollAttempts = 20
)

// awaitUIDMap busy-waits, bounded at 50ms*20, until the effective uid
// becomes 0 — the signal that the parent has finished writing uid_map.
// This is the one legitimate poll in the pipeline: unlike the pty
// handshake, there is no descriptor the parent can signal on here (the
// parent's write happens to a /proc file the child has no fd for), so
// spec step 1 mandates a bounded wait rather than introducing one more
// pipe.
func awaitUIDMap() error {
	for i := 0; i < uidMapPollAttempts; i++ {
		if unix.Geteuid() == 0 {
			return nil
		}
		time.Sleep(uidMapPollInterval)
	}
	return fmt.Errorf("child: uid_map not applied after %d attempts", uidMapPollAttempts)
}
