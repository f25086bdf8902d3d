package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"orca/internal/container"
	"orca/internal/image"
	"orca/internal/registry"
	"orca/internal/runtime/parent"
	"orca/internal/vcs"
)

// Orchestrator is a handle on one environment: <root>/<name>/.
type Orchestrator struct {
	Paths  Paths
	Logger *slog.Logger
}

// New returns a handle on the environment root/name. It performs no I/O.
func New(root, name string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{Paths: NewPaths(root, name), Logger: logger}
}

// Init creates the environment's directory layout and an empty VCS store.
// If imageName is non-empty the environment is pinned to a guest image
// (name:tag), downloaded and merged into a per-container tree on first Run;
// otherwise Run overlays the host root.
func (o *Orchestrator) Init(imageName, tag string) error {
	for _, dir := range []string{o.Paths.Mountpoint, o.Paths.Upperdir, o.Paths.Workdir, o.Paths.LowerRoot, o.Paths.Tmpdir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("orchestrator: create %q: %w", dir, err)
		}
	}
	if err := vcs.Init(o.Paths.CommitsFile); err != nil {
		return fmt.Errorf("orchestrator: init vcs store: %w", err)
	}
	if imageName != "" {
		if err := saveImageMeta(o.Paths.ImageMeta, &imageMeta{Name: imageName, Tag: tag}); err != nil {
			return err
		}
	}
	return nil
}

// openVCS opens the environment's commits.toml, translating vcs's
// not-initialized sentinel into the orchestrator's own.
func (o *Orchestrator) openVCS() (*vcs.VCS, error) {
	v, err := vcs.Open(o.Paths.CommitsFile)
	if err != nil {
		if errors.Is(err, vcs.ErrNotInitialized) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	return v, nil
}

// Log returns HEAD's commit chain, oldest ancestor last. It is ErrCommitNotFound
// (via vcs.ErrCommitNotFound) when the current branch has no commits yet;
// cmd/orca turns that into "Current branch does not have any commits".
func (o *Orchestrator) Log() ([]vcs.Commit, error) {
	v, err := o.openVCS()
	if err != nil {
		return nil, err
	}
	it, err := v.GetCurrentCommits()
	if err != nil {
		return nil, err
	}
	return it.Collect(), nil
}

// AllBranches lists every branch name.
func (o *Orchestrator) AllBranches() ([]string, error) {
	v, err := o.openVCS()
	if err != nil {
		return nil, err
	}
	return v.AllBranches(), nil
}

// CurrentBranch returns the branch HEAD is attached to, or ok=false if
// HEAD is detached.
func (o *Orchestrator) CurrentBranch() (string, bool, error) {
	v, err := o.openVCS()
	if err != nil {
		return "", false, err
	}
	name, ok := v.CurrentBranch()
	return name, ok, nil
}

// CreateBranch creates a new branch at HEAD.
func (o *Orchestrator) CreateBranch(name string) error {
	v, err := o.openVCS()
	if err != nil {
		return err
	}
	return v.CreateBranch(name)
}

// DeleteBranch removes a branch (never HEAD's own).
func (o *Orchestrator) DeleteBranch(name string) error {
	v, err := o.openVCS()
	if err != nil {
		return err
	}
	return v.DeleteBranch(name)
}

// Checkout switches HEAD to query (a branch name, "HEAD", or a commit-id
// prefix), refusing when the upperdir holds uncommitted changes.
func (o *Orchestrator) Checkout(query string) error {
	v, err := o.openVCS()
	if err != nil {
		return err
	}
	dirty, err := dirExists(o.Paths.Upperdir)
	if err != nil {
		return err
	}
	if dirty {
		return ErrUncommittedChanges
	}
	return v.Checkout(query)
}

// Commit turns the current upperdir into an immutable lower layer named
// after the new commit id, and starts the next upperdir empty.
func (o *Orchestrator) Commit(message *string) (vcs.Commit, error) {
	v, err := o.openVCS()
	if err != nil {
		return vcs.Commit{}, err
	}
	c, err := v.Commit(message)
	if err != nil {
		return vcs.Commit{}, err
	}
	if err := os.MkdirAll(o.Paths.LowerRoot, 0o755); err != nil {
		return vcs.Commit{}, fmt.Errorf("orchestrator: create %q: %w", o.Paths.LowerRoot, err)
	}
	dest := filepath.Join(o.Paths.LowerRoot, c.ID)
	if err := os.Rename(o.Paths.Upperdir, dest); err != nil {
		return vcs.Commit{}, fmt.Errorf("orchestrator: rename upperdir to %q: %w", dest, err)
	}
	if err := os.MkdirAll(o.Paths.Upperdir, 0o755); err != nil {
		return vcs.Commit{}, fmt.Errorf("orchestrator: recreate upperdir: %w", err)
	}
	return c, nil
}

// Clean discards uncommitted changes by recreating an empty upperdir.
func (o *Orchestrator) Clean() error {
	if _, err := o.openVCS(); err != nil {
		return err
	}
	if err := os.RemoveAll(o.Paths.Upperdir); err != nil {
		return fmt.Errorf("orchestrator: remove upperdir: %w", err)
	}
	return os.MkdirAll(o.Paths.Upperdir, 0o755)
}

// Merge is not implemented, matching original_source's own unimplemented!().
func (o *Orchestrator) Merge(target string) error {
	if _, err := o.openVCS(); err != nil {
		return err
	}
	return ErrUnimplemented
}

// Reset is not implemented, matching original_source's own unimplemented!().
func (o *Orchestrator) Reset(target string) error {
	if _, err := o.openVCS(); err != nil {
		return err
	}
	return ErrUnimplemented
}

// buildImage resolves which Image the environment should launch: a
// HostImage overlaying the real root plus HEAD's commit chain as additional
// lowerdirs, or a GuestImage pinned at Init time, downloading and merging it
// on first use.
func (o *Orchestrator) buildImage(ctx context.Context, v *vcs.VCS) (image.Image, error) {
	meta, err := loadImageMeta(o.Paths.ImageMeta)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		return o.buildGuestImage(ctx, meta)
	}
	return o.buildHostImage(v)
}

func (o *Orchestrator) buildHostImage(v *vcs.VCS) (image.Image, error) {
	commits, err := v.GetCurrentCommits()
	if err != nil {
		if errors.Is(err, vcs.ErrCommitNotFound) {
			return image.NewHostImage(o.Paths.Mountpoint, o.Paths.Upperdir, o.Paths.Workdir, o.Paths.Tmpdir, nil), nil
		}
		return nil, err
	}
	var lowerdirs []string
	for _, c := range commits.Collect() {
		lowerdirs = append(lowerdirs, filepath.Join(o.Paths.LowerRoot, c.ID))
	}
	return image.NewHostImage(o.Paths.Mountpoint, o.Paths.Upperdir, o.Paths.Workdir, o.Paths.Tmpdir, lowerdirs), nil
}

func (o *Orchestrator) buildGuestImage(ctx context.Context, meta *imageMeta) (image.Image, error) {
	rootfsPrefix := filepath.Join(o.Paths.EnvRoot, "guest")
	puller := registry.NewPuller()
	g := image.NewGuestImage(rootfsPrefix, meta.Name, meta.Tag, "container", puller)

	if !g.ExistsImage() {
		if err := g.Download(ctx); err != nil {
			return nil, fmt.Errorf("orchestrator: download guest image %s:%s: %w", meta.Name, meta.Tag, err)
		}
	}
	if !g.ExistsContainer() {
		if err := g.CreateContainerImage(); err != nil {
			return nil, fmt.Errorf("orchestrator: merge guest image into container tree: %w", err)
		}
	}
	return g, nil
}

// Run launches a container: builds the chosen image, re-execs execPath as
// the child initializer in a fresh namespace set, and blocks until the
// container exits. execPath is the absolute path to this same binary (see
// os.Executable), re-invoked as "<execPath> __child_init".
func (o *Orchestrator) Run(ctx context.Context, execPath string, netns bool, command []string) error {
	v, err := o.openVCS()
	if err != nil {
		return err
	}

	img, err := o.buildImage(ctx, v)
	if err != nil {
		return err
	}
	if !img.NeedUserNS() && !isRoot() {
		return ErrNeedsRoot
	}

	rec := container.New(o.Paths.Name, o.Paths.EnvRoot)
	if err := container.Save(o.Paths.EnvRoot, rec); err != nil {
		o.Logger.Warn("failed to persist container state", "error", err)
	}

	launched, err := parent.Launch([]string{execPath, "__child_init"}, img, o.Paths.Tmpdir, netns, command)
	if err != nil {
		return fmt.Errorf("orchestrator: launch container: %w", err)
	}

	rec.Status = container.Running
	rec.InitPID = launched.Handle.Process.Pid
	if err := container.Save(o.Paths.EnvRoot, rec); err != nil {
		o.Logger.Warn("failed to persist container state", "error", err)
	}

	state, waitErr := launched.Handle.Process.Wait()
	if tdErr := launched.Teardown(); tdErr != nil {
		o.Logger.Warn("teardown error", "error", tdErr)
	}

	rec.Status = container.Stopped
	if err := container.Save(o.Paths.EnvRoot, rec); err != nil {
		o.Logger.Warn("failed to persist container state", "error", err)
	}

	if waitErr != nil {
		return fmt.Errorf("orchestrator: wait for container: %w", waitErr)
	}
	if !state.Success() {
		return fmt.Errorf("orchestrator: container exited with status %s", state.String())
	}
	return nil
}

func isRoot() bool {
	return unix.Geteuid() == 0 && unix.Getegid() == 0
}
