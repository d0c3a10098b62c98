// Package identity persists the instance id and project that tie CLI
// invocations within one working session to a single registered instance.
// The identity lives in a small JSON file; any command that acts "as" an
// instance loads it first and fails fast when it is absent.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotRegistered signals that no identity file exists: the caller has not
// run register (or has deregistered). Commands surface this without touching
// the database.
var ErrNotRegistered = errors.New("not registered")

// Identity is the persisted (instance id, project) pair.
type Identity struct {
	InstanceID string `json:"instance_id"`
	Project    string `json:"project"`
}

// Save durably associates the session with an instance id, creating the
// parent directory if needed.
func Save(path string, id Identity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write identity file %s: %w", path, err)
	}
	return nil
}

// Load returns the previously saved identity, or ErrNotRegistered when the
// file is absent. A present but unparsable file is reported as its own
// error, not as absence.
func Load(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("read identity file %s: %w", path, err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("parse identity file %s: %w", path, err)
	}
	if id.InstanceID == "" {
		return nil, ErrNotRegistered
	}
	return &id, nil
}

// Clear removes the identity file. Clearing an absent identity is a no-op.
func Clear(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove identity file %s: %w", path, err)
	}
	return nil
}
