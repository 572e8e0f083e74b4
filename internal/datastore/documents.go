// Package datastore keeps per-user durable records outside of the wizard
// session: the generated-document log that feeds sequence numbering, and
// the saved company requisites reused across documents. Records live in a
// YAML file so a single-binary deployment needs no database.
package datastore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docwizard/pkg/wizard"
)

// Document is one persisted history entry.
type Document struct {
	TemplateID   string            `yaml:"template_id"`
	TemplateName string            `yaml:"template_name"`
	Values       map[string]string `yaml:"values,omitempty"`
	CreatedAt    time.Time         `yaml:"created_at"`
}

type fileState struct {
	Documents  map[int64][]Document        `yaml:"documents,omitempty"`
	Requisites map[int64]map[string]string `yaml:"requisites,omitempty"`
}

// Store is a file-backed per-user record store. The zero path keeps
// everything in memory only.
type Store struct {
	mu    sync.Mutex
	path  string
	state fileState
}

// Open loads (or initializes) a store at path. An empty path creates a
// purely in-memory store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, state: fileState{
		Documents:  make(map[int64][]Document),
		Requisites: make(map[int64]map[string]string),
	}}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("datastore: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("datastore: decode %s: %w", path, err)
	}
	if s.state.Documents == nil {
		s.state.Documents = make(map[int64][]Document)
	}
	if s.state.Requisites == nil {
		s.state.Requisites = make(map[int64]map[string]string)
	}
	return s, nil
}

// CountDocuments reports how many documents the user has generated.
func (s *Store) CountDocuments(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Documents[userID]), nil
}

// Append records a generated document and persists the file.
func (s *Store) Append(_ context.Context, userID int64, record wizard.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string, len(record.Values))
	for k, v := range record.Values {
		values[k] = v
	}
	s.state.Documents[userID] = append(s.state.Documents[userID], Document{
		TemplateID:   record.TemplateID,
		TemplateName: record.TemplateName,
		Values:       values,
		CreatedAt:    record.CreatedAt,
	})
	return s.flushLocked()
}

// List returns the user's history, oldest first.
func (s *Store) List(_ context.Context, userID int64) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.state.Documents[userID]
	out := make([]Document, len(docs))
	copy(out, docs)
	return out, nil
}

var _ wizard.DocumentLog = (*Store)(nil)
