// Package integration exercises the built orca binary end-to-end: init, run,
// commit, log, branch, and diff against a real container launch. Grounded on
// the teacher's integration/integration_test.go (build the binary, run it
// under sudo inside a throwaway state dir, assert on persisted state.json),
// adapted to orca's own verb set and per-environment directory layout.
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"orca/internal/container"
)

func buildOrca(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "orca")
	build := exec.Command("go", "build", "-o", bin)
	build.Dir = ".."
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build orca: %v\n%s", err, string(out))
	}
	return bin
}

func requireVM(t *testing.T) {
	if os.Getenv("IN_VM") != "1" {
		t.Skip("integration test only runs inside a VM with real namespace/mount privileges")
	}
}

func TestRunEchoesCommandOutput(t *testing.T) {
	requireVM(t)

	dir := t.TempDir()
	bin := buildOrca(t, dir)
	root := filepath.Join(dir, "envroot")

	if out, err := exec.Command("sudo", bin, "--root", root, "init").CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, string(out))
	}

	out, err := exec.Command("sudo", bin, "--root", root, "run", "echo", "hello-from-orca").CombinedOutput()
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, string(out))
	}
	if !strings.Contains(string(out), "hello-from-orca") {
		t.Fatalf("expected output to contain 'hello-from-orca', got:\n%s", string(out))
	}
}

func TestRunPersistsStoppedState(t *testing.T) {
	requireVM(t)

	dir := t.TempDir()
	bin := buildOrca(t, dir)
	root := filepath.Join(dir, "envroot")

	if out, err := exec.Command("sudo", bin, "--root", root, "init").CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, string(out))
	}
	if out, err := exec.Command("sudo", bin, "--root", root, "run", "true").CombinedOutput(); err != nil {
		t.Fatalf("run failed: %v\n%s", err, string(out))
	}

	c, err := container.Load(filepath.Join(root, "_default"))
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if c.Status != container.Stopped {
		t.Fatalf("expected status Stopped, got %v", c.Status)
	}
	if c.InitPID == 0 {
		t.Fatalf("expected non-zero init pid")
	}
}

func TestCommitLogAndDiffRoundTrip(t *testing.T) {
	requireVM(t)

	dir := t.TempDir()
	bin := buildOrca(t, dir)
	root := filepath.Join(dir, "envroot")

	if out, err := exec.Command("sudo", bin, "--root", root, "init").CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, string(out))
	}
	if out, err := exec.Command("sudo", bin, "--root", root, "run", "touch", "/new-file").CombinedOutput(); err != nil {
		t.Fatalf("run failed: %v\n%s", err, string(out))
	}

	diffOut, err := exec.Command("sudo", bin, "--root", root, "diff").CombinedOutput()
	if err != nil {
		t.Fatalf("diff failed: %v\n%s", err, string(diffOut))
	}
	if !strings.Contains(string(diffOut), "+ /new-file") {
		t.Fatalf("expected diff to report '+ /new-file', got:\n%s", string(diffOut))
	}

	commitOut, err := exec.Command("sudo", bin, "--root", root, "commit", "-m", "add new-file").CombinedOutput()
	if err != nil {
		t.Fatalf("commit failed: %v\n%s", err, string(commitOut))
	}
	commitID := strings.TrimSpace(string(commitOut))
	if commitID == "" {
		t.Fatalf("expected commit to print a commit id")
	}

	logOut, err := exec.Command("sudo", bin, "--root", root, "log").CombinedOutput()
	if err != nil {
		t.Fatalf("log failed: %v\n%s", err, string(logOut))
	}
	if !strings.Contains(string(logOut), commitID) {
		t.Fatalf("expected log to contain commit id %s, got:\n%s", commitID, string(logOut))
	}
}

func TestBranchCreateListAndDelete(t *testing.T) {
	requireVM(t)

	dir := t.TempDir()
	bin := buildOrca(t, dir)
	root := filepath.Join(dir, "envroot")

	if out, err := exec.Command("sudo", bin, "--root", root, "init").CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, string(out))
	}
	if out, err := exec.Command("sudo", bin, "--root", root, "branch", "feature").CombinedOutput(); err != nil {
		t.Fatalf("branch create failed: %v\n%s", err, string(out))
	}

	listOut, err := exec.Command("sudo", bin, "--root", root, "branch", "--all").CombinedOutput()
	if err != nil {
		t.Fatalf("branch --all failed: %v\n%s", err, string(listOut))
	}
	if !strings.Contains(string(listOut), "feature") {
		t.Fatalf("expected branch list to contain 'feature', got:\n%s", string(listOut))
	}

	if out, err := exec.Command("sudo", bin, "--root", root, "branch", "feature", "--delete").CombinedOutput(); err != nil {
		t.Fatalf("branch --delete failed: %v\n%s", err, string(out))
	}
	listOut, err = exec.Command("sudo", bin, "--root", root, "branch", "--all").CombinedOutput()
	if err != nil {
		t.Fatalf("branch --all failed: %v\n%s", err, string(listOut))
	}
	if strings.Contains(string(listOut), "feature") {
		t.Fatalf("expected 'feature' to be gone after delete, got:\n%s", string(listOut))
	}
}
