package parent

import (
	"encoding/json"
	"fmt"
	"os"

	"orca/internal/runtime"
)

// writeConfig marshals cfg as JSON onto w and closes w, mirroring the
// teacher's single json.Encoder.Encode(&opts) over the init pipe.
func writeConfig(w *os.File, cfg runtime.ChildConfig) error {
	defer w.Close()
	if err := json.NewEncoder(w).Encode(&cfg); err != nil {
		return fmt.Errorf("parent: send child config: %w", err)
	}
	return nil
}
