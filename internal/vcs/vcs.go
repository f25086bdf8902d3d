// Package vcs implements a single serialized document holding commits (a DAG
// by parent pointer), branches, and HEAD — the snapshot VCS that turns an
// overlay's upper layer into commit-addressable lower layers.
package vcs

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultBranch  = "main"
	noCommitID     = "none"
	commitsFileDoc = "commits.toml"
)

var (
	ErrNotInitialized            = errors.New("vcs: not initialized")
	ErrInvalidFormat             = errors.New("vcs: commits file is invalid format")
	ErrDetachedHEAD              = errors.New("vcs: cannot commit with detached HEAD")
	ErrBranchAlreadyExists       = errors.New("vcs: branch already exists")
	ErrCommitNotFound            = errors.New("vcs: commit not found")
	ErrAmbiguousQuery            = errors.New("vcs: query matches more than one commit")
	ErrCannotDeleteCurrentBranch = errors.New("vcs: cannot delete the branch HEAD points to")
)

// Commit is one immutable snapshot record.
type Commit struct {
	ID       string    `toml:"id"`
	ParentID *string   `toml:"parent_id,omitempty"`
	Date     time.Time `toml:"date"`
	Message  *string   `toml:"message,omitempty"`
}

// Branch is a named, mutable pointer to a commit.
type Branch struct {
	Name     string `toml:"name"`
	CommitID string `toml:"commit_id"`
}

// Head tracks the current checkout position: either attached to a branch or
// detached at a specific commit.
type Head struct {
	BranchName string `toml:"branch_name"`
	CommitID   string `toml:"commit_id"`
	Detached   bool   `toml:"detached"`
}

// document is the on-disk shape of commits.toml.
type document struct {
	Commits  []Commit `toml:"commits"`
	Head     Head     `toml:"head"`
	Branches []Branch `toml:"branches"`
}

// VCS is an open handle on one commits.toml document.
type VCS struct {
	path string
	doc  document
}

// nonce is a process-local counter mixed into commit ids so two commits
// created within the same clock tick never collide (see SPEC_FULL.md §4.6 /
// DESIGN.md).
var nonce uint64

// Init creates a fresh commits.toml at path: no commits, one branch named
// "main" pointing at the sentinel commit id "none", HEAD attached to "main".
func Init(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("vcs: create %q: %w", dir, err)
		}
	}
	doc := document{
		Commits: []Commit{},
		Head: Head{
			BranchName: defaultBranch,
			CommitID:   noCommitID,
			Detached:   false,
		},
		Branches: []Branch{{Name: defaultBranch, CommitID: noCommitID}},
	}
	return writeDocument(path, &doc)
}

// Open loads and validates an existing commits.toml.
func Open(path string) (*VCS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("vcs: read %q: %w", path, err)
	}
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &VCS{path: path, doc: doc}, nil
}

func writeDocument(path string, doc *document) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("vcs: encode commits document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("vcs: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("vcs: rename %q to %q: %w", tmp, path, err)
	}
	return nil
}

func (v *VCS) persist() error {
	return writeDocument(v.path, &v.doc)
}

// Commit refuses on a detached HEAD. The new commit's parent is the current
// HEAD commit (or nil if HEAD is still at the sentinel "none"). The current
// branch and HEAD advance atomically and the document is persisted before
// returning.
func (v *VCS) Commit(message *string) (Commit, error) {
	if v.doc.Head.Detached {
		return Commit{}, ErrDetachedHEAD
	}
	branch := v.findBranch(v.doc.Head.BranchName)
	if branch == nil {
		return Commit{}, fmt.Errorf("vcs: HEAD branch %q does not exist", v.doc.Head.BranchName)
	}

	var parentID *string
	if head, ok := v.commitByID(v.doc.Head.CommitID); ok {
		id := head.ID
		parentID = &id
	}

	c := newCommit(parentID, message)
	branch.CommitID = c.ID
	v.doc.Head.CommitID = c.ID
	v.doc.Commits = append(v.doc.Commits, c)

	if err := v.persist(); err != nil {
		return Commit{}, err
	}
	return c, nil
}

// GetCurrentCommits returns HEAD's commit followed by each ancestor in
// parent order, as a finite, non-restartable sequence.
func (v *VCS) GetCurrentCommits() (*CommitIter, error) {
	c, err := v.resolveCommit(v.doc.Head.CommitID)
	if err != nil {
		return nil, err
	}
	return &CommitIter{commits: v.doc.Commits, nextID: &c.ID}, nil
}

// CurrentBranch returns the name of the branch HEAD is attached to and
// true, or ("", false) while HEAD is detached.
func (v *VCS) CurrentBranch() (string, bool) {
	if v.doc.Head.Detached {
		return "", false
	}
	return v.doc.Head.BranchName, true
}

// AllBranches returns the names of every branch, in storage order.
func (v *VCS) AllBranches() []string {
	names := make([]string, len(v.doc.Branches))
	for i, b := range v.doc.Branches {
		names[i] = b.Name
	}
	return names
}

// CreateBranch creates a new branch inheriting HEAD's commit id (or the
// sentinel if HEAD has no commit).
func (v *VCS) CreateBranch(name string) error {
	if v.findBranch(name) != nil {
		return ErrBranchAlreadyExists
	}
	commitID := noCommitID
	if c, err := v.resolveCommit(v.doc.Head.CommitID); err == nil {
		commitID = c.ID
	}
	v.doc.Branches = append(v.doc.Branches, Branch{Name: name, CommitID: commitID})
	return v.persist()
}

// DeleteBranch removes a branch. Deleting HEAD's own branch is refused; the
// branch's commits are never deleted (they may be shared by other branches).
func (v *VCS) DeleteBranch(name string) error {
	if !v.doc.Head.Detached && v.doc.Head.BranchName == name {
		return ErrCannotDeleteCurrentBranch
	}
	for i, b := range v.doc.Branches {
		if b.Name == name {
			v.doc.Branches = append(v.doc.Branches[:i], v.doc.Branches[i+1:]...)
			return v.persist()
		}
	}
	return fmt.Errorf("vcs: branch %q does not exist", name)
}

// Checkout resolves query (literal "HEAD", an exact branch name, or a
// commit-id prefix) and updates HEAD accordingly. Matching a branch attaches
// HEAD to it; matching a commit id detaches HEAD.
func (v *VCS) Checkout(query string) error {
	if query == "HEAD" {
		_, err := v.resolveCommit(v.doc.Head.CommitID)
		return err
	}
	if b := v.findBranch(query); b != nil {
		v.doc.Head.BranchName = b.Name
		v.doc.Head.CommitID = b.CommitID
		v.doc.Head.Detached = false
		return v.persist()
	}
	c, err := v.resolveCommit(query)
	if err != nil {
		return err
	}
	v.doc.Head.CommitID = c.ID
	v.doc.Head.Detached = true
	return v.persist()
}

func (v *VCS) findBranch(name string) *Branch {
	for i := range v.doc.Branches {
		if v.doc.Branches[i].Name == name {
			return &v.doc.Branches[i]
		}
	}
	return nil
}

func (v *VCS) commitByID(id string) (Commit, bool) {
	for _, c := range v.doc.Commits {
		if c.ID == id {
			return c, true
		}
	}
	return Commit{}, false
}

// resolveCommit resolves a literal commit id or prefix to exactly one
// commit, following the same rule Checkout/GetCurrentCommits use.
func (v *VCS) resolveCommit(idOrPrefix string) (Commit, error) {
	if idOrPrefix == noCommitID || idOrPrefix == "" {
		return Commit{}, ErrCommitNotFound
	}
	var matches []Commit
	for _, c := range v.doc.Commits {
		if c.ID == idOrPrefix || hasPrefix(c.ID, idOrPrefix) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return Commit{}, ErrCommitNotFound
	case 1:
		return matches[0], nil
	default:
		return Commit{}, ErrAmbiguousQuery
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// CommitIter walks a commit and its ancestors by following ParentID.
type CommitIter struct {
	commits []Commit
	nextID  *string
}

// Next returns the next commit in the chain, or (Commit{}, false) when
// exhausted.
func (it *CommitIter) Next() (Commit, bool) {
	if it.nextID == nil {
		return Commit{}, false
	}
	for _, c := range it.commits {
		if c.ID == *it.nextID {
			it.nextID = c.ParentID
			return c, true
		}
	}
	it.nextID = nil
	return Commit{}, false
}

// Collect drains the iterator into a slice. It is non-restartable: calling
// it twice on the same iterator yields an empty slice the second time.
func (it *CommitIter) Collect() []Commit {
	var out []Commit
	for {
		c, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func newCommit(parentID *string, message *string) Commit {
	now := time.Now()
	n := atomic.AddUint64(&nonce, 1)
	h := sha1.New()
	fmt.Fprintf(h, "%s-%d", now.Format(time.RFC3339Nano), n)
	id := hex.EncodeToString(h.Sum(nil))
	return Commit{ID: id, ParentID: parentID, Date: now, Message: message}
}
