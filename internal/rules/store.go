package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gcbaptista/go-grammar-checker/internal/persistence"
)

const stateFile = "rules.gob"

// StateStore persists the enabled state of a registry
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// MemoryStateStore keeps the state in memory, for tests and for running
// without a data directory
type MemoryStateStore struct {
	mutex sync.RWMutex
	state State
}

// NewMemoryStateStore creates an empty in-memory store
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

// Load returns the last saved state
func (s *MemoryStateStore) Load() (State, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state, nil
}

// Save replaces the stored state
func (s *MemoryStateStore) Save(state State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state = state
	return nil
}

// FileStateStore is a gob file implementation of the StateStore interface
type FileStateStore struct {
	mutex        sync.Mutex
	dataFilePath string
}

// NewFileStateStore creates a store writing to rules.gob in dataDir
func NewFileStateStore(dataDir string) *FileStateStore {
	return &FileStateStore{dataFilePath: filepath.Join(dataDir, stateFile)}
}

// Load reads the saved state. A missing file yields an empty state.
func (s *FileStateStore) Load() (State, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var state State
	if err := persistence.LoadGob(s.dataFilePath, &state); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("failed to load rule state: %w", err)
	}
	return state, nil
}

// Save writes the state to disk
func (s *FileStateStore) Save(state State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := persistence.SaveGob(s.dataFilePath, state); err != nil {
		return fmt.Errorf("failed to save rule state: %w", err)
	}
	return nil
}
