// Package orchestrator ties the VCS store, the image abstraction, and the
// parent/child launch pipeline together into the verb set a user invokes
// from the command line: init, run, commit, log, branch, checkout, diff,
// clean, merge, reset. Grounded on orca/src/main.rs's run() in
// original_source, which is the authoritative source for the on-disk
// directory layout and per-verb error text this package reproduces.
package orchestrator

import "path/filepath"

const (
	commitsFileName = "commits.toml"
	mountpointDir   = "rootfs"
	upperDirName    = "upper"
	workDirName     = "work"
	lowerDirName    = "layers"
	tmpDirName      = "tmp"
	imageMetaName   = "image.json"
)

// Paths lays out one environment's directory, <root>/<name>/, exactly as
// orca/src/main.rs::run does.
type Paths struct {
	Name        string
	EnvRoot     string
	CommitsFile string
	Mountpoint  string
	Upperdir    string
	Workdir     string
	LowerRoot   string
	Tmpdir      string
	ImageMeta   string
}

// NewPaths computes every path under root/name without touching the
// filesystem.
func NewPaths(root, name string) Paths {
	envRoot := filepath.Join(root, name)
	return Paths{
		Name:        name,
		EnvRoot:     envRoot,
		CommitsFile: filepath.Join(envRoot, commitsFileName),
		Mountpoint:  filepath.Join(envRoot, mountpointDir),
		Upperdir:    filepath.Join(envRoot, upperDirName),
		Workdir:     filepath.Join(envRoot, workDirName),
		LowerRoot:   filepath.Join(envRoot, lowerDirName),
		Tmpdir:      filepath.Join(envRoot, tmpDirName),
		ImageMeta:   filepath.Join(envRoot, imageMetaName),
	}
}
