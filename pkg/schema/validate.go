package schema

import (
	"fmt"
	"strings"
)

// Validate checks structural invariants on a template definition: non-empty
// id and filename, and field keys unique within the collection.
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("schema: template id is required")
	}
	if strings.TrimSpace(t.Filename) == "" {
		return fmt.Errorf("schema: template %q: filename is required", t.ID)
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for i, field := range t.Fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			return fmt.Errorf("schema: template %q: field %d has no key", t.ID, i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("schema: template %q: duplicate field key %q", t.ID, key)
		}
		seen[key] = struct{}{}
		if field.Auto == AutoCityFromAddress && strings.TrimSpace(field.Source) == "" {
			return fmt.Errorf("schema: template %q: field %q: city rule needs a source field", t.ID, key)
		}
	}
	return nil
}
