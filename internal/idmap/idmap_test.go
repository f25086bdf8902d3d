package idmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestComputeUID(t *testing.T) {
	m, err := Compute(UID)
	if err != nil {
		t.Fatalf("Compute(UID) failed: %v", err)
	}
	if m.Target != 0 || m.Range != 1 {
		t.Fatalf("unexpected mapping %+v", m)
	}
}

func TestComputeSubIDMissingFile(t *testing.T) {
	_, err := computeSubID(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrSubIDFileMissing) {
		t.Fatalf("expected ErrSubIDFileMissing, got %v", err)
	}
}

func TestComputeSubIDNoEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subuid")
	if err := os.WriteFile(path, []byte("someoneelse:100000:65536\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("USER", "tester")

	_, err := computeSubID(path)
	if !errors.Is(err, ErrNoSubIDEntry) {
		t.Fatalf("expected ErrNoSubIDEntry, got %v", err)
	}
}

func TestComputeSubIDMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subuid")
	if err := os.WriteFile(path, []byte("tester:notanumber:65536\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("USER", "tester")

	_, err := computeSubID(path)
	if !errors.Is(err, ErrMalformedSubIDEntry) {
		t.Fatalf("expected ErrMalformedSubIDEntry, got %v", err)
	}
}

func TestComputeSubIDHappyPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subuid")
	contents := "someoneelse:200000:65536\ntester:100000:65536\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("USER", "tester")

	m, err := computeSubID(path)
	if err != nil {
		t.Fatalf("computeSubID failed: %v", err)
	}
	if m.Target != 1 || m.Source != 100000 || m.Range != 65536 {
		t.Fatalf("unexpected mapping %+v", m)
	}
}

func TestFormatAndFlatten(t *testing.T) {
	m := Mapping{Target: 0, Source: 1000, Range: 1}
	if got, want := Format(m), "0 1000 1"; got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
	flat := Flatten(m)
	want := []string{"0", "1000", "1"}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("Flatten()[%d] = %q, want %q", i, flat[i], want[i])
		}
	}
}
