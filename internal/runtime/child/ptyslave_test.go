package child

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsurePtmxSymlinkCreatesWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "ptmx")

	orig := ptmxSymlink
	ptmxSymlink = link
	defer func() { ptmxSymlink = orig }()

	if err := ensurePtmxSymlink(); err != nil {
		t.Fatalf("ensurePtmxSymlink failed: %v", err)
	}
	target, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("expected symlink created: %v", err)
	}
	if target != "pts/ptmx" {
		t.Fatalf("got target %q", target)
	}
}

func TestEnsurePtmxSymlinkNoopWhenPresent(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "ptmx")
	if err := os.Symlink("pts/ptmx", link); err != nil {
		t.Fatalf("setup: %v", err)
	}

	orig := ptmxSymlink
	ptmxSymlink = link
	defer func() { ptmxSymlink = orig }()

	if err := ensurePtmxSymlink(); err != nil {
		t.Fatalf("ensurePtmxSymlink failed on existing symlink: %v", err)
	}
}
