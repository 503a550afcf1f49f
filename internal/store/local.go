package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/model"
)

// LocalStore holds the serialized ApplicationState in a single file slot.
type LocalStore struct {
	path string
	mu   sync.Mutex
}

func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// Load returns (nil, nil) when the slot is empty.
func (l *LocalStore) Load() (*model.AppState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local state: %w", err)
	}

	var state model.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode local state: %w", err)
	}
	return &state, nil
}

func (l *LocalStore) Save(state *model.AppState) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode local state: %w", err)
	}
	return l.writeSlot(raw)
}

// Export returns the raw serialized slot for manual copy-out.
func (l *LocalStore) Export() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return "", apperrors.NoRecord()
	}
	if err != nil {
		return "", fmt.Errorf("read local state: %w", err)
	}
	return string(raw), nil
}

// Import validates that raw is a parseable state document before replacing
// the slot; an invalid payload leaves the existing slot untouched.
func (l *LocalStore) Import(raw string) error {
	var state model.AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return apperrors.ValidationError("import payload is not valid JSON").WithCause(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeSlot([]byte(raw))
}

// writeSlot replaces the file atomically so a crash mid-write cannot leave a
// truncated document. Caller holds l.mu.
func (l *LocalStore) writeSlot(raw []byte) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".site-state-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state slot: %w", err)
	}
	return nil
}
