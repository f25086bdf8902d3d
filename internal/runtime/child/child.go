// Package child implements the launch pipeline's child half: the process
// that runs inside the fresh namespaces the parent cloned it into, builds
// and pivots into the container's root filesystem, and execs the target
// command. The step order below is mandatory — each depends on the one
// before it — per the child initializer's 13-step sequence; grounded on
// src/container/child.rs's Child methods, generalized from separate
// pivot_root/mount/connect_tty calls into one ordered Run.
package child

import (
	"fmt"
	"os"
	"path/filepath"

	"orca/internal/mount"
	"orca/internal/runtime"
)

const oldrootName = "oldroot"

// Run executes the full child initializer against cfg, received from the
// parent over the config pipe identified by runtime.EnvConfigFD. It never
// returns on success — the final step execs the target command in place of
// this process.
func Run() error {
	p, err := openPipes()
	if err != nil {
		return err
	}

	var cfg runtime.ChildConfig
	if err := readConfig(p.config, &cfg); err != nil {
		return err
	}

	// Step 1: wait for the parent to finish writing uid_map.
	if cfg.UseUserNS {
		if err := awaitUIDMap(); err != nil {
			return err
		}
	}

	// Step 2: stash resolv.conf somewhere that survives the pivot.
	stashedAt, err := stashResolvConf(cfg.ScratchDir)
	if err != nil {
		return err
	}

	// Step 3: build the root filesystem.
	if err := mountImage(cfg); err != nil {
		return fmt.Errorf("child: mount image: %w", err)
	}

	// Step 4: pivot into it.
	newRoot := rootfsPath(cfg)
	if err := mount.PivotRoot(newRoot, oldrootName); err != nil {
		return fmt.Errorf("child: pivot_root: %w", err)
	}
	if err := os.Chdir("/"); err != nil {
		return fmt.Errorf("child: chdir /: %w", err)
	}

	// Step 5: mandatory pseudo-filesystems and device node bind-mounts.
	if err := mount.MountPseudoFilesystems(oldrootName); err != nil {
		return err
	}

	// Step 6: tell the parent /dev/pts is ready for it to open the master.
	if err := p.signalDevptsReady(); err != nil {
		return err
	}

	// Step 7: restore resolv.conf. ScratchDir lives outside the image
	// rootfs (it's a sibling of the mountpoint, not nested under it), so
	// the whole host path reappears unchanged under /oldroot after the
	// pivot — no relative-path math needed.
	if err := restoreResolvConf(filepath.Join("/", oldrootName, stashedAt)); err != nil {
		return err
	}

	// Step 8: ensure /dev/ptmx exists.
	if err := ensurePtmxSymlink(); err != nil {
		return err
	}

	// Step 9: wait for the parent to unlock the pty master.
	if err := p.awaitMasterUnlocked(); err != nil {
		return err
	}

	// Step 10: attach the pty slave as our controlling terminal.
	if err := attachControllingTTY(oldrootName); err != nil {
		return err
	}

	// Step 11: set the container's hostname, only meaningful with our own
	// uts namespace (always true here) and only desired with our own user
	// namespace (a host image shares the host's hostname).
	if cfg.UseUserNS {
		if err := setHostname(cfg.Hostname); err != nil {
			return err
		}
	}

	// Step 12: detach and remove the old root; nothing under it is reachable
	// afterward, so every earlier step that needed it (resolv.conf, device
	// nodes, console) had to run first.
	if err := mount.DetachOldRoot(oldrootName); err != nil {
		return err
	}

	// Step 13: exec the target command with the fixed minimal environment.
	return execCommand(cfg.Command)
}
