package payroll

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const backupTimestampLayout = "20060102_150405"

// Store holds the full employee set in memory, in insertion order, and
// persists it as a single JSON snapshot file on explicit Save. Nothing
// here writes to disk on its own; a mutation is durable only after the
// caller asks for it.
//
// Store is not safe for concurrent use. Callers that share one across
// goroutines serialize access themselves.
type Store struct {
	path      string
	backupDir string
	records   []*Employee
	index     map[string]int
}

// NewStore returns an empty store bound to a snapshot path and a backup
// directory. No disk access happens until Load, Save or Backup.
func NewStore(path, backupDir string) *Store {
	return &Store{
		path:      path,
		backupDir: backupDir,
		records:   []*Employee{},
		index:     map[string]int{},
	}
}

func (s *Store) Path() string { return s.path }

func (s *Store) BackupDir() string { return s.backupDir }

// Load replaces the in-memory set with the snapshot file's contents.
// A missing file is a normal first run and yields an empty store with
// no error. A malformed file also yields an empty store, but the error
// is returned so the caller can warn before overwriting anything.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.reset(nil)
		return nil
	}
	if err != nil {
		s.reset(nil)
		return fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	var records []*Employee
	if err := json.Unmarshal(data, &records); err != nil {
		s.reset(nil)
		return fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	if err := s.reset(records); err != nil {
		s.reset(nil)
		return fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return nil
}

// Save writes the whole in-memory set to the snapshot path, creating
// parent directories as needed. The file is indented JSON so operators
// can read and hand-edit it.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	return nil
}

// Backup copies the current snapshot file into the backup directory
// under a timestamped name, leaving the live snapshot untouched. It
// copies the file as it is on disk, not the in-memory state, so an
// unsaved session cannot leak into a backup. Returns the backup path.
func (s *Store) Backup() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoSnapshot
	}
	if err != nil {
		return "", fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %s: %w", s.backupDir, err)
	}
	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s_%s%s", strings.TrimSuffix(base, ext), time.Now().Format(backupTimestampLayout), ext)
	target := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", target, err)
	}
	return target, nil
}

// Add appends a record, rejecting duplicate ids.
func (s *Store) Add(e *Employee) error {
	if _, ok := s.index[e.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
	}
	s.records = append(s.records, e)
	s.index[e.ID] = len(s.records) - 1
	return nil
}

// Find returns the record for id. Mutating the returned record mutates
// the store's copy; that is the intended way to edit an employee.
func (s *Store) Find(id string) (*Employee, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.records[i], true
}

// Update sets the named adjustment fields on one employee. Either every
// change applies or, on an unknown field or missing id, none do.
func (s *Store) Update(id string, changes map[string]float64) error {
	e, ok := s.Find(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return applyAdjustments(e, changes)
}

// Delete removes the record for id, preserving the order of the rest.
func (s *Store) Delete(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	return nil
}

// All yields the employees in insertion order.
func (s *Store) All() iter.Seq[*Employee] {
	return func(yield func(*Employee) bool) {
		for _, e := range s.records {
			if !yield(e) {
				return
			}
		}
	}
}

func (s *Store) Count() int { return len(s.records) }

// reset swaps in a new record set, rebuilding the id index. A duplicate
// id in the input leaves the store empty and reports which id repeated.
func (s *Store) reset(records []*Employee) error {
	s.records = make([]*Employee, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, e := range records {
		if _, ok := s.index[e.ID]; ok {
			s.records = []*Employee{}
			s.index = map[string]int{}
			return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
		}
		s.records = append(s.records, e)
		s.index[e.ID] = len(s.records) - 1
	}
	return nil
}
