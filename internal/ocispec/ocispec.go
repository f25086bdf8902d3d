// Package ocispec loads OCI runtime-spec bundles, generalizing the
// teacher's single-purpose container.LoadSpec into a reusable bundle
// loader. No orchestrator verb calls it: environments are built from the
// host root or from a registry pull, not from a bundle directory.
package ocispec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Bundle is a directory containing an OCI config.json plus the rootfs it
// references (relative to the bundle directory, per the OCI runtime spec).
type Bundle struct {
	Dir    string
	Config *specs.Spec
}

// Load reads "<dir>/config.json" and resolves Config.Root.Path relative to
// dir if it is not already absolute.
func Load(dir string) (*Bundle, error) {
	configPath := filepath.Join(dir, "config.json")
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("ocispec: open %q: %w", configPath, err)
	}
	defer f.Close()

	var spec specs.Spec
	if err := json.NewDecoder(f).Decode(&spec); err != nil {
		return nil, fmt.Errorf("ocispec: decode %q: %w", configPath, err)
	}

	if spec.Root != nil && !filepath.IsAbs(spec.Root.Path) {
		spec.Root.Path = filepath.Join(dir, spec.Root.Path)
	}

	return &Bundle{Dir: dir, Config: &spec}, nil
}

// RootfsPath returns the bundle's resolved root filesystem path, or "" if
// the config has no root section.
func (b *Bundle) RootfsPath() string {
	if b.Config.Root == nil {
		return ""
	}
	return b.Config.Root.Path
}

// Command returns the process to exec inside the container, preferring the
// bundle's process.args over a caller-supplied fallback.
func (b *Bundle) Command(fallback []string) []string {
	if b.Config.Process != nil && len(b.Config.Process.Args) > 0 {
		return b.Config.Process.Args
	}
	return fallback
}
