package orchestrator

import "errors"

var (
	// ErrNotInitialized mirrors vcs.ErrNotInitialized at the orchestrator
	// boundary so cmd/orca doesn't need to import internal/vcs just to
	// check this one case.
	ErrNotInitialized = errors.New("orchestrator: environment not initialized, run 'orca init' first")

	// ErrNeedsRoot is returned by Run when the chosen image is a host
	// image and the process isn't euid/egid 0 (a host-image run remounts
	// the real root filesystem).
	ErrNeedsRoot = errors.New("orchestrator: running a host image needs root privilege (sudo or a setuid binary)")

	// ErrUncommittedChanges is returned by Checkout when upperdir is
	// non-empty; checking out would silently discard those changes.
	ErrUncommittedChanges = errors.New("orchestrator: you have to commit first")

	// ErrUnimplemented is returned by Merge and Reset, which original_source
	// itself leaves as unimplemented!() stubs.
	ErrUnimplemented = errors.New("orchestrator: not implemented")
)
