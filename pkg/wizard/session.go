package wizard

import (
	"strings"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Phase identifies where a session sits in the collection lifecycle.
type Phase string

const (
	PhaseSelectingTemplate Phase = "selecting_template"
	PhaseCollecting        Phase = "collecting"
	PhaseConfirming        Phase = "confirming"
	PhaseEditingField      Phase = "editing_field"
	PhaseGenerating        Phase = "generating"
)

// GenerationState is the scratch space of the guided generation sub-flow.
// It is cleared whenever the wizard leaves the field that opened it.
type GenerationState struct {
	Active    bool   `json:"active,omitempty"`
	Manual    bool   `json:"manual,omitempty"`
	Candidate string `json:"candidate,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Session is one user's in-progress wizard run. At most one session exists
// per user; the surrounding dispatcher serializes all access for a given
// user, so the session itself carries no locking.
//
// Invariants: a field key is in at most one of Collected (with a non-empty
// value) or Skipped; Cursor and EditingIndex are valid indices into Fields
// whenever the phase gives them meaning.
type Session struct {
	TemplateID       string             `json:"template_id"`
	TemplateName     string             `json:"template_name"`
	TemplateFilename string             `json:"template_filename"`
	Fields           []schema.FieldSpec `json:"fields"`
	Collected        map[string]string  `json:"collected"`
	Skipped          map[string]bool    `json:"skipped"`
	Cursor           int                `json:"cursor"`
	Phase            Phase              `json:"phase"`
	EditingIndex     int                `json:"editing_index"`
	Gen              GenerationState    `json:"gen,omitempty"`
}

// Clone returns a deep copy so a transition can be computed without
// mutating the loaded state. Stores hand out clones for the same reason.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Fields = make([]schema.FieldSpec, len(s.Fields))
	copy(out.Fields, s.Fields)
	out.Collected = make(map[string]string, len(s.Collected))
	for k, v := range s.Collected {
		out.Collected[k] = v
	}
	out.Skipped = make(map[string]bool, len(s.Skipped))
	for k, v := range s.Skipped {
		out.Skipped[k] = v
	}
	return &out
}

func (s *Session) currentField() schema.FieldSpec {
	return s.Fields[s.Cursor]
}

// setValue stores a non-empty value and removes any stale skip marker,
// preserving the fill/skip exclusivity invariant.
func (s *Session) setValue(key, value string) {
	s.Collected[key] = value
	delete(s.Skipped, key)
}

// markSkipped records an explicit skip and drops any stale value.
func (s *Session) markSkipped(key string) {
	delete(s.Collected, key)
	s.Skipped[key] = true
}

// nextUnfilledIndex scans fields from start and returns the first index
// whose key is neither skipped nor collected with a non-empty value, or -1
// when the scan reaches the end. It is a pure function of its inputs; every
// forward-navigation decision in the wizard goes through it.
func nextUnfilledIndex(fields []schema.FieldSpec, collected map[string]string, skipped map[string]bool, start int) int {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(fields); i++ {
		key := fields[i].Key
		if skipped[key] {
			continue
		}
		if strings.TrimSpace(collected[key]) != "" {
			continue
		}
		return i
	}
	return -1
}
