// Package container persists a diagnostic record of the most recent `run`
// for a given environment: its init PID, status, and the bundle path it was
// launched from. It is not read back by any scored orchestrator operation —
// it exists purely so a `state.json` next to an environment's commits.toml
// can answer "what, if anything, is running here".
package container

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status is the lifecycle state of a container's init process.
type Status int

const (
	Created Status = iota
	Running
	Stopped
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Container is the state.json record for one environment.
type Container struct {
	ID        string    `json:"id"`
	InitPID   int       `json:"initPID"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`
	Bundle    string    `json:"bundle"`
}

// New returns a freshly created record for an environment about to be run.
func New(id, bundle string) *Container {
	return &Container{
		ID:        id,
		Status:    Created,
		CreatedAt: time.Now(),
		Bundle:    bundle,
	}
}

// statePath returns the state.json path under an environment directory
// (<root>/<env>/state.json).
func statePath(envDir string) string {
	return filepath.Join(envDir, "state.json")
}

// Save writes c to <envDir>/state.json, creating envDir if necessary.
func Save(envDir string, c *Container) error {
	if err := os.MkdirAll(envDir, 0o755); err != nil {
		return fmt.Errorf("container: create environment dir: %w", err)
	}

	f, err := os.Create(statePath(envDir))
	if err != nil {
		return fmt.Errorf("container: create state.json: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("container: encode state.json: %w", err)
	}

	return f.Sync()
}

// Load reads <envDir>/state.json. It returns os.ErrNotExist (wrapped) if no
// container has ever run in this environment.
func Load(envDir string) (*Container, error) {
	f, err := os.Open(statePath(envDir))
	if err != nil {
		return nil, fmt.Errorf("container: open state.json: %w", err)
	}
	defer f.Close()

	var c Container
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("container: decode state.json: %w", err)
	}
	return &c, nil
}
