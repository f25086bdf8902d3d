package child

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// fixedEnv is the minimal environment the container's command execs into
// (step 13); it deliberately ignores whatever environment the orca
// orchestrator itself was invoked with.
var fixedEnv = []string{
	"SHELL=/bin/sh",
	"HOME=/root",
	"TERM=xterm",
	"PATH=/bin:/usr/bin:/sbin:/usr/sbin",
}

// execCommand resolves command[0] against fixedEnv's PATH (execvpe
// semantics: search PATH unless the name already contains a slash) and
// execs it with the fixed environment, replacing this process image. On
// failure it returns an error instead of exiting, so the caller can report
// it on the still-attached pseudoterminal before exiting nonzero.
func execCommand(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("child: no command to exec")
	}

	resolved, err := resolvePath(command[0])
	if err != nil {
		return err
	}

	return syscall.Exec(resolved, command, fixedEnv)
}

func resolvePath(name string) (string, error) {
	if strings.Contains(name, "/") {
		return name, nil
	}
	for _, dir := range strings.Split(pathFromEnv(fixedEnv), ":") {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("child: %q not found in PATH", name)
}

func pathFromEnv(env []string) string {
	for _, kv := range env {
		if rest, ok := strings.CutPrefix(kv, "PATH="); ok {
			return rest
		}
	}
	return ""
}
