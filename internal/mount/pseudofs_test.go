package mount

import "testing"

func TestDeviceNodesListIsComplete(t *testing.T) {
	want := map[string]bool{
		"null": true, "random": true, "full": true,
		"tty": true, "zero": true, "urandom": true,
	}
	if len(deviceNodes) != len(want) {
		t.Fatalf("got %d device nodes, want %d", len(deviceNodes), len(want))
	}
	for _, n := range deviceNodes {
		if !want[n] {
			t.Fatalf("unexpected device node %q", n)
		}
	}
}
