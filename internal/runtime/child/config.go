package child

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"orca/internal/runtime"
)

func readConfig(r *os.File, cfg *runtime.ChildConfig) error {
	defer r.Close()
	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("child: decode config: %w", err)
	}
	return nil
}

func setHostname(name string) error {
	if err := unix.Sethostname([]byte(name)); err != nil {
		return fmt.Errorf("child: sethostname(%q): %w", name, err)
	}
	return nil
}
