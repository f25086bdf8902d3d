package ocispec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

func writeBundle(t *testing.T, dir string, spec *specs.Spec) {
	t.Helper()
	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644); err != nil {
		t.Fatalf("write config.json: %v", err)
	}
}

func TestLoadResolvesRelativeRootfs(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, &specs.Spec{
		Root: &specs.Root{Path: "rootfs"},
		Process: &specs.Process{
			Args: []string{"/bin/sh"},
		},
	})

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := filepath.Join(dir, "rootfs")
	if b.RootfsPath() != want {
		t.Fatalf("got %q, want %q", b.RootfsPath(), want)
	}
}

func TestLoadKeepsAbsoluteRootfs(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, &specs.Spec{
		Root: &specs.Root{Path: "/var/lib/orca/rootfs"},
	})

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.RootfsPath() != "/var/lib/orca/rootfs" {
		t.Fatalf("got %q", b.RootfsPath())
	}
}

func TestCommandFallsBackWhenProcessArgsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, &specs.Spec{Root: &specs.Root{Path: "rootfs"}})

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := b.Command([]string{"/bin/bash"})
	if len(got) != 1 || got[0] != "/bin/bash" {
		t.Fatalf("got %v", got)
	}
}

func TestLoadMissingConfigReturnsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for missing config.json")
	}
}
