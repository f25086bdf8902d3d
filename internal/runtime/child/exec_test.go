package child

import "testing"

func TestPathFromEnvExtractsPATH(t *testing.T) {
	env := []string{"HOME=/root", "PATH=/bin:/usr/bin", "TERM=xterm"}
	if got := pathFromEnv(env); got != "/bin:/usr/bin" {
		t.Fatalf("got %q", got)
	}
}

func TestResolvePathPassesThroughSlashContainingNames(t *testing.T) {
	got, err := resolvePath("/custom/bin/thing")
	if err != nil {
		t.Fatalf("resolvePath failed: %v", err)
	}
	if got != "/custom/bin/thing" {
		t.Fatalf("got %q", got)
	}
}

func TestResolvePathErrorsWhenNotFound(t *testing.T) {
	if _, err := resolvePath("definitely-not-a-real-binary-xyz"); err == nil {
		t.Fatalf("expected error for unresolvable command")
	}
}

func TestExecCommandRejectsEmptyCommand(t *testing.T) {
	if err := execCommand(nil); err == nil {
		t.Fatalf("expected error for empty command")
	}
}
