package parent

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"orca/internal/idmap"
)

// MapID writes the child's uid_map/gid_map directly, mapping the caller's
// effective uid/gid to root inside the user namespace. setgroups must be
// written "deny" before gid_map, per the kernel's unprivileged-write rule
// (src/container/parent.rs::map_id).
func MapID(pid int) error {
	uidMapping, err := idmap.Compute(idmap.UID)
	if err != nil {
		return fmt.Errorf("parent: compute uid mapping: %w", err)
	}
	gidMapping, err := idmap.Compute(idmap.GID)
	if err != nil {
		return fmt.Errorf("parent: compute gid mapping: %w", err)
	}

	procDir := fmt.Sprintf("/proc/%d", pid)
	if err := writeProcFile(filepath.Join(procDir, "uid_map"), idmap.Format(uidMapping)); err != nil {
		return err
	}
	if err := writeProcFile(filepath.Join(procDir, "setgroups"), "deny"); err != nil {
		return err
	}
	if err := writeProcFile(filepath.Join(procDir, "gid_map"), idmap.Format(gidMapping)); err != nil {
		return err
	}
	return nil
}

// MapIDWithHelper maps the child's uid/gid plus its full sub-uid/sub-gid
// range via the setuid newuidmap/newgidmap helpers, so a container can run
// with more than a single mapped id (src/container/parent.rs::map_id_with_subuid).
func MapIDWithHelper(pid int) error {
	uidArgs, err := mappingArgs(pid, idmap.UID, idmap.SubUID)
	if err != nil {
		return err
	}
	if err := runIDMapHelper("newuidmap", uidArgs); err != nil {
		return err
	}

	gidArgs, err := mappingArgs(pid, idmap.GID, idmap.SubGID)
	if err != nil {
		return err
	}
	return runIDMapHelper("newgidmap", gidArgs)
}

func mappingArgs(pid int, self, sub idmap.Kind) ([]string, error) {
	selfMapping, err := idmap.Compute(self)
	if err != nil {
		return nil, fmt.Errorf("parent: compute %v mapping: %w", self, err)
	}
	subMapping, err := idmap.Compute(sub)
	if err != nil {
		return nil, fmt.Errorf("parent: compute %v mapping: %w", sub, err)
	}
	args := []string{fmt.Sprintf("%d", pid)}
	args = append(args, idmap.Flatten(selfMapping)...)
	args = append(args, idmap.Flatten(subMapping)...)
	return args, nil
}

// HelpersAvailable reports whether both newuidmap and newgidmap are present
// in PATH, the condition under which MapIDWithHelper should be preferred
// over the direct MapID write.
func HelpersAvailable() bool {
	_, uidErr := exec.LookPath("newuidmap")
	_, gidErr := exec.LookPath("newgidmap")
	return uidErr == nil && gidErr == nil
}

func runIDMapHelper(name string, args []string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("parent: %s not found in PATH: %w", name, err)
	}
	cmd := exec.Command(path, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("parent: %s exited with error: %w", name, err)
	}
	return nil
}

func writeProcFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("parent: open %q: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("parent: write %q: %w", path, err)
	}
	return nil
}
