package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// DiffEntry is one changed path relative to the container root, as produced
// by a walk of upperdir. Grounded on orca/src/main.rs::print_dir_content_recursively.
type DiffEntry struct {
	// Path is rooted at "/", i.e. the path the file has inside the container
	// rather than inside upperdir.
	Path   string
	Status DiffStatus
}

// DiffStatus distinguishes an added/modified path from one OverlayFS marked
// deleted via its whiteout convention.
type DiffStatus int

const (
	Added DiffStatus = iota
	Deleted
)

func (s DiffStatus) String() string {
	if s == Deleted {
		return "-"
	}
	return "+"
}

// Diff walks the environment's upperdir and reports every entry, marking
// OverlayFS whiteouts (a character device with rdev 0) as deletions and
// everything else as additions. Directories themselves are not reported,
// only the files and whiteouts inside them — matching WalkDir's own
// metadata.is_dir() skip in original_source.
func (o *Orchestrator) Diff() ([]DiffEntry, error) {
	if _, err := o.openVCS(); err != nil {
		return nil, err
	}

	var entries []DiffEntry
	err := filepath.Walk(o.Paths.Upperdir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == o.Paths.Upperdir || info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(o.Paths.Upperdir, path)
		if err != nil {
			return err
		}
		containerPath := "/" + filepath.ToSlash(rel)

		status := Added
		if isOverlayWhiteout(info) {
			status = Deleted
		}
		entries = append(entries, DiffEntry{Path: containerPath, Status: status})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: walk upperdir: %w", err)
	}
	return entries, nil
}

// isOverlayWhiteout reports whether fi is OverlayFS's own on-disk whiteout
// marker: a character device node with device number 0. This is distinct
// from the OCI ".wh.*" tar convention internal/image/merger.go handles —
// that one exists only inside downloaded layer tarballs, never in a live
// kernel upperdir.
func isOverlayWhiteout(fi os.FileInfo) bool {
	if fi.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	st, ok := fi.Sys().(*unix.Stat_t)
	if !ok {
		return false
	}
	return st.Rdev == 0
}

// dirExists reports whether dir exists and contains at least one entry.
func dirExists(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("orchestrator: open %q: %w", dir, err)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err != nil {
		return false, nil
	}
	return true, nil
}
