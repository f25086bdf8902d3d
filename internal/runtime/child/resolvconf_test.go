package child

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "nested", "dest")

	if err := os.WriteFile(src, []byte("nameserver 8.8.8.8\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := copyFile(src, dest); err != nil {
		t.Fatalf("copyFile failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(data) != "nameserver 8.8.8.8\n" {
		t.Fatalf("got %q", data)
	}
}

func TestRelativeToRoot(t *testing.T) {
	newRoot := "/var/lib/orca/rootfs"
	scratch := filepath.Join(newRoot, "tmp", "orca-scratch")
	stashedAt := filepath.Join(scratch, "resolv.conf")

	got := relativeToRoot(stashedAt, scratch, newRoot)
	want := "/tmp/orca-scratch/resolv.conf"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
