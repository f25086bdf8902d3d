// Package parent implements the launch pipeline's parent half: cloning the
// child into a fresh set of namespaces, mapping its uid/gid, joining its
// mount namespace long enough to open the pty master against its fresh
// devpts instance, and running the §4.7.1 pipe handshake. Grounded on the
// teacher's re-exec pattern in container.go (RunContainer/handleParentStage)
// and on src/container/parent.rs's Initilizer for the namespace/id-mapping
// operations themselves.
package parent

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"orca/internal/runtime"
)

// Flags selects which optional namespaces the child is cloned into, on top
// of the mount/uts/ipc/pid namespaces every container gets.
type Flags struct {
	UserNS bool
	NetNS  bool
}

func (f Flags) cloneFlags() uintptr {
	flags := uintptr(syscall.CLONE_NEWNS | syscall.CLONE_NEWUTS | syscall.CLONE_NEWIPC | syscall.CLONE_NEWPID)
	if f.UserNS {
		flags |= syscall.CLONE_NEWUSER
	}
	if f.NetNS {
		flags |= syscall.CLONE_NEWNET
	}
	return flags
}

// Handle is a running child process along with the pipes still needed to
// finish the handshake and the process itself for later Wait/Kill.
type Handle struct {
	Process *os.Process

	configWrite       *os.File
	childToParentRead *os.File
	parentToChildWrite *os.File
}

// Clone re-execs the current binary as "orca __child_init", placing it
// into a fresh set of namespaces per flags, and sends it cfg over a config
// pipe. childInitArgv is the argv the re-exec'd process should see (e.g.
// []string{os.Args[0], "__child_init"}); stdin/stdout/stderr are inherited
// so the parent can still see early child diagnostics before pty handoff.
func Clone(childInitArgv []string, flags Flags, cfg runtime.ChildConfig) (*Handle, error) {
	configRead, configWrite, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("parent: create config pipe: %w", err)
	}
	childToParentRead, childToParentWrite, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("parent: create child-to-parent pipe: %w", err)
	}
	parentToChildRead, parentToChildWrite, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("parent: create parent-to-child pipe: %w", err)
	}

	cmd := exec.Command(childInitArgv[0], childInitArgv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{configRead, childToParentWrite, parentToChildRead}
	cmd.Env = append(os.Environ(),
		runtime.EnvConfigFD+"="+strconv.Itoa(3),
		runtime.EnvChildToParentFD+"="+strconv.Itoa(4),
		runtime.EnvParentToChildFD+"="+strconv.Itoa(5),
	)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: flags.cloneFlags(),
	}

	if err := cmd.Start(); err != nil {
		configRead.Close()
		configWrite.Close()
		childToParentRead.Close()
		childToParentWrite.Close()
		parentToChildRead.Close()
		parentToChildWrite.Close()
		return nil, fmt.Errorf("parent: start child init: %w", err)
	}

	// The child's ends of each pipe are now duplicated into its own fd
	// table; close our copies.
	configRead.Close()
	childToParentWrite.Close()
	parentToChildRead.Close()

	if err := writeConfig(configWrite, cfg); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	return &Handle{
		Process:            cmd.Process,
		configWrite:        configWrite,
		childToParentRead:  childToParentRead,
		parentToChildWrite: parentToChildWrite,
	}, nil
}
