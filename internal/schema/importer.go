package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	pkgschema "github.com/goliatone/go-docwizard/pkg/schema"
)

// placeholderPattern matches {{ variable }} markers in template text.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// FieldLabel is the display metadata a Labeler produces per variable name.
type FieldLabel struct {
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

// Labeler generates human-readable labels and prompts for raw variable
// names, typically backed by an AI call. Optional: without one the
// importer falls back to title-cased variable names.
type Labeler interface {
	GenerateFieldLabels(ctx context.Context, names []string) (map[string]FieldLabel, error)
}

// ImportTemplate scans a template file for placeholders and builds a
// Template whose fields follow the placeholders in sorted name order.
// Labeler failures degrade to default labels rather than failing the
// import.
func ImportTemplate(ctx context.Context, path, displayName string, labeler Labeler) (pkgschema.Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pkgschema.Template{}, fmt.Errorf("schema: read template %s: %w", path, err)
	}

	names := scanPlaceholders(string(raw))
	if len(names) == 0 {
		return pkgschema.Template{}, fmt.Errorf("schema: template %s contains no {{ }} placeholders", path)
	}

	labels := map[string]FieldLabel{}
	if labeler != nil {
		if generated, err := labeler.GenerateFieldLabels(ctx, names); err == nil {
			labels = generated
		}
	}

	if displayName == "" {
		base := filepath.Base(path)
		displayName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	fields := make([]pkgschema.FieldSpec, 0, len(names))
	for _, name := range names {
		info := labels[name]
		field := pkgschema.FieldSpec{
			Key:      name,
			Label:    info.Label,
			Prompt:   info.Prompt,
			Type:     pkgschema.FieldType(info.Type),
			Required: true,
		}
		if field.Label == "" {
			field.Label = defaultLabel(name)
		}
		if field.Prompt == "" {
			field.Prompt = fmt.Sprintf("Введите %s:", field.Label)
		}
		if field.Type == "" {
			field.Type = pkgschema.FieldTypeString
		}
		fields = append(fields, field)
	}

	template := pkgschema.Template{
		ID:          "user_" + uuid.NewString()[:8],
		DisplayName: displayName,
		Filename:    filepath.Base(path),
		Fields:      fields,
	}
	if err := template.Validate(); err != nil {
		return pkgschema.Template{}, err
	}
	return template, nil
}

// scanPlaceholders returns the distinct placeholder names in sorted order.
func scanPlaceholders(text string) []string {
	seen := make(map[string]struct{})
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		seen[match[1]] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func defaultLabel(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
