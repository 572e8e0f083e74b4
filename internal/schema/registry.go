// Package schema provides the concrete field schema sources: a YAML-backed
// template registry and a placeholder-scan importer for user-supplied
// templates.
package schema

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	pkgschema "github.com/goliatone/go-docwizard/pkg/schema"
)

type registryFile struct {
	Templates []pkgschema.Template `yaml:"templates"`
}

// Registry is a read-only template collection loaded once from a YAML
// metadata file. File order is the listing order.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	templates map[string]pkgschema.Template
}

// LoadRegistry reads and validates the metadata file.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("schema: decode registry %s: %w", path, err)
	}

	reg := &Registry{templates: make(map[string]pkgschema.Template, len(file.Templates))}
	for _, template := range file.Templates {
		if err := template.Validate(); err != nil {
			return nil, err
		}
		if _, dup := reg.templates[template.ID]; dup {
			return nil, fmt.Errorf("schema: duplicate template id %q", template.ID)
		}
		reg.order = append(reg.order, template.ID)
		reg.templates[template.ID] = template
	}
	return reg, nil
}

// ListTemplates returns refs in file order.
func (r *Registry) ListTemplates() []pkgschema.TemplateRef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := make([]pkgschema.TemplateRef, 0, len(r.order))
	for _, id := range r.order {
		template := r.templates[id]
		refs = append(refs, pkgschema.TemplateRef{ID: template.ID, DisplayName: template.DisplayName})
	}
	return refs
}

// GetTemplate looks a template up by id.
func (r *Registry) GetTemplate(id string) (pkgschema.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	template, ok := r.templates[id]
	return template, ok
}

// Add registers a template at runtime (used by the importers). Duplicate
// ids are rejected.
func (r *Registry) Add(template pkgschema.Template) error {
	if err := template.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.templates[template.ID]; dup {
		return fmt.Errorf("schema: duplicate template id %q", template.ID)
	}
	r.order = append(r.order, template.ID)
	r.templates[template.ID] = template
	return nil
}

// Save writes the registry back to a metadata file, preserving listing
// order. Used after an import so new templates survive restarts.
func (r *Registry) Save(path string) error {
	r.mu.RLock()
	file := registryFile{Templates: make([]pkgschema.Template, 0, len(r.order))}
	for _, id := range r.order {
		file.Templates = append(file.Templates, r.templates[id])
	}
	r.mu.RUnlock()

	raw, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("schema: encode registry: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("schema: write registry %s: %w", path, err)
	}
	return nil
}

var _ pkgschema.Registry = (*Registry)(nil)
