package mount

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDestCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := ensureDest(dir, Dir); err != nil {
		t.Fatalf("ensureDest failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory")
	}
}

func TestEnsureDestCreatesFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "marker")
	if err := ensureDest(dest, File); err != nil {
		t.Fatalf("ensureDest failed: %v", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if info.IsDir() {
		t.Fatalf("expected file")
	}
}

func TestEnsureDestKindMismatch(t *testing.T) {
	dir := t.TempDir()
	err := ensureDest(dir, File)
	if err == nil {
		t.Fatalf("expected kind mismatch error")
	}
	var mismatch *ErrKindMismatch
	if !asKindMismatch(err, &mismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

func asKindMismatch(err error, target **ErrKindMismatch) bool {
	m, ok := err.(*ErrKindMismatch)
	if !ok {
		return false
	}
	*target = m
	return true
}

func TestOverlayDataRejectsColon(t *testing.T) {
	o := &Overlay{
		Mountpoint: "/mnt",
		Upperdir:   "/upper",
		Workdir:    "/work",
		Lowerdirs:  []string{"/a:b"},
	}
	if _, err := o.Data(); err == nil {
		t.Fatalf("expected error for lowerdir containing colon")
	}
}

func TestOverlayDataFormat(t *testing.T) {
	o := &Overlay{
		Mountpoint: "/mnt",
		Upperdir:   "/upper",
		Workdir:    "/work",
		Lowerdirs:  []string{"/a", "/b"},
	}
	data, err := o.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	want := "lowerdir=/a:/b,upperdir=/upper,workdir=/work"
	if data != want {
		t.Fatalf("got %q, want %q", data, want)
	}
}

func TestOverlayEnsureDirs(t *testing.T) {
	base := t.TempDir()
	o := &Overlay{
		Mountpoint: filepath.Join(base, "mnt"),
		Upperdir:   filepath.Join(base, "upper"),
		Workdir:    filepath.Join(base, "work"),
	}
	if err := o.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	for _, dir := range []string{o.Mountpoint, o.Upperdir, o.Workdir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected %q to exist: %v", dir, err)
		}
	}
}
