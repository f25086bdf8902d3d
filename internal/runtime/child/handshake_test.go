package child

import (
	"os"
	"testing"

	"orca/internal/runtime"
)

func TestChildSignalsAndAwaitsHandshake(t *testing.T) {
	childToParentRead, childToParentWrite, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	parentToChildRead, parentToChildWrite, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer childToParentRead.Close()
	defer parentToChildWrite.Close()

	p := &pipes{childToParent: childToParentWrite, parentToChild: parentToChildRead}

	if err := p.signalDevptsReady(); err != nil {
		t.Fatalf("signalDevptsReady: %v", err)
	}
	var buf [1]byte
	if _, err := childToParentRead.Read(buf[:]); err != nil {
		t.Fatalf("read devpts-ready signal: %v", err)
	}
	if buf[0] != runtime.ByteDevptsReady {
		t.Fatalf("got %q", buf[0])
	}

	if _, err := parentToChildWrite.Write([]byte{runtime.ByteMasterUnlocked}); err != nil {
		t.Fatalf("write master-unlocked: %v", err)
	}
	if err := p.awaitMasterUnlocked(); err != nil {
		t.Fatalf("awaitMasterUnlocked: %v", err)
	}
}
