package datastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveRequisites stores the user's company record, replacing any previous
// one.
func (s *Store) SaveRequisites(_ context.Context, userID int64, record map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := make(map[string]string, len(record))
	for k, v := range record {
		clone[k] = v
	}
	s.state.Requisites[userID] = clone
	return s.flushLocked()
}

// Get returns the user's saved record, or nil when none is stored.
func (s *Store) Get(_ context.Context, userID int64) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.state.Requisites[userID]
	if !ok {
		return nil, nil
	}
	clone := make(map[string]string, len(record))
	for k, v := range record {
		clone[k] = v
	}
	return clone, nil
}

// DeleteRequisites removes the saved record and reports whether one
// existed.
func (s *Store) DeleteRequisites(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Requisites[userID]; !ok {
		return false, nil
	}
	delete(s.state.Requisites, userID)
	return true, s.flushLocked()
}

// flushLocked writes the state file through a temp-and-rename so readers
// never see a torn file. Callers hold s.mu.
func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := yaml.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("datastore: encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("datastore: create dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("datastore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("datastore: rename state file: %w", err)
	}
	return nil
}
