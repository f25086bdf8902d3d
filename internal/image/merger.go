package image

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	whiteoutPrefix = ".wh."
	opaqueFileName = ".wh..wh..opq"
)

// copyTree layers src over dest, honoring the OCI whiteout convention:
// a file named ".wh.<name>" in src means "<name>" should not appear in the
// merged result, and ".wh..wh..opq" in a directory means none of dest's
// pre-existing entries in that directory should appear — only what src
// itself contributes. Grounded on guest_image/merger.rs's IsSame/WhiteoutFile
// handling in original_source.
func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		name := info.Name()
		dir := filepath.Dir(rel)

		if name == opaqueFileName {
			destDir := filepath.Join(dest, dir)
			if err := clearDir(destDir); err != nil {
				return err
			}
			return nil
		}

		if target, ok := strings.CutPrefix(name, whiteoutPrefix); ok {
			hidden := filepath.Join(dest, dir, target)
			if err := os.RemoveAll(hidden); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove whited-out %q: %w", hidden, err)
			}
			return nil
		}

		destPath := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(destPath, info.Mode().Perm())
		}
		return copyFile(path, destPath, info.Mode().Perm())
	})
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create %q: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %q to %q: %w", src, dest, err)
	}
	return nil
}
