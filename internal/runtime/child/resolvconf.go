package child

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const resolvConfPath = "/etc/resolv.conf"

// stashResolvConf copies /etc/resolv.conf into scratchDir before
// pivot_root, so it can be restored afterward — scratchDir must live
// outside the new root, on the old root, which reappears under /oldroot
// once pivoted.
func stashResolvConf(scratchDir string) (stashedAt string, err error) {
	stashedAt = filepath.Join(scratchDir, "resolv.conf")
	if err := copyFile(resolvConfPath, stashedAt); err != nil {
		return "", fmt.Errorf("child: stash resolv.conf: %w", err)
	}
	return stashedAt, nil
}

// restoreResolvConf copies the stashed resolv.conf (now visible under
// /oldroot/<host path it was stashed at>) back to /etc/resolv.conf.
func restoreResolvConf(stashedUnderOldroot string) error {
	if err := copyFile(stashedUnderOldroot, resolvConfPath); err != nil {
		return fmt.Errorf("child: restore resolv.conf: %w", err)
	}
	return nil
}

// relativeToRoot returns the path stashedAt, a file directly inside scratch,
// has once newRoot becomes "/": scratch's path relative to newRoot, rooted
// at "/", plus stashedAt's file name. If scratch cannot be made relative to
// newRoot, stashedAt is returned unchanged.
func relativeToRoot(stashedAt, scratch, newRoot string) string {
	rel, err := filepath.Rel(newRoot, scratch)
	if err != nil {
		return stashedAt
	}
	return filepath.Join("/", rel, filepath.Base(stashedAt))
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("mkdir -p %q: %w", filepath.Dir(dest), err)
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %q: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %q to %q: %w", src, dest, err)
	}
	return nil
}
