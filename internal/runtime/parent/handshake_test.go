package parent

import (
	"os"
	"testing"

	"orca/internal/runtime"
)

func TestHandshakeRoundTrip(t *testing.T) {
	childToParentRead, childToParentWrite, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	parentToChildRead, parentToChildWrite, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer parentToChildRead.Close()

	h := &Handle{
		childToParentRead:  childToParentRead,
		parentToChildWrite: parentToChildWrite,
	}

	if _, err := childToParentWrite.Write([]byte{runtime.ByteDevptsReady}); err != nil {
		t.Fatalf("write devpts-ready: %v", err)
	}
	if err := awaitDevptsReady(h); err != nil {
		t.Fatalf("awaitDevptsReady: %v", err)
	}

	if err := signalMasterUnlocked(h); err != nil {
		t.Fatalf("signalMasterUnlocked: %v", err)
	}
	var buf [1]byte
	if _, err := parentToChildRead.Read(buf[:]); err != nil {
		t.Fatalf("read master-unlocked signal: %v", err)
	}
	if buf[0] != runtime.ByteMasterUnlocked {
		t.Fatalf("got %q, want master-unlocked byte", buf[0])
	}

	h.Close()
	childToParentWrite.Close()
}

func TestAwaitDevptsReadyRejectsWrongByte(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	h := &Handle{childToParentRead: r}

	if _, err := w.Write([]byte{'x'}); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()

	if err := awaitDevptsReady(h); err == nil {
		t.Fatalf("expected error for unexpected handshake byte")
	}
}
