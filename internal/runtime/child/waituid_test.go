package child

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestAwaitUIDMapReturnsImmediatelyWhenAlreadyRoot(t *testing.T) {
	if unix.Geteuid() != 0 {
		t.Skip("test process is not euid 0; awaitUIDMap would need to time out to exercise the failure path")
	}
	if err := awaitUIDMap(); err != nil {
		t.Fatalf("awaitUIDMap failed: %v", err)
	}
}
