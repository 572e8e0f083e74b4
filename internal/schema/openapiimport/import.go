// Package openapiimport derives document template field specs from an
// OpenAPI document, so teams that already describe their data as schemas
// can reuse them as wizard templates.
package openapiimport

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgschema "github.com/goliatone/go-docwizard/pkg/schema"
)

// Options configure an import.
type Options struct {
	// SchemaName selects a component schema from the document.
	SchemaName string
	// TemplateID overrides the derived template id.
	TemplateID string
	// DisplayName overrides the derived display name.
	DisplayName string
	// Filename names the render template the fields feed.
	Filename string
}

// Import loads an OpenAPI document and converts the selected component
// schema's string-like properties into an ordered FieldSpec collection.
func Import(ctx context.Context, path string, opts Options) (pkgschema.Template, error) {
	if err := ctx.Err(); err != nil {
		return pkgschema.Template{}, err
	}
	if strings.TrimSpace(opts.SchemaName) == "" {
		return pkgschema.Template{}, fmt.Errorf("openapiimport: schema name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return pkgschema.Template{}, fmt.Errorf("openapiimport: load document: %w", err)
	}

	if doc.Components == nil || doc.Components.Schemas == nil {
		return pkgschema.Template{}, fmt.Errorf("openapiimport: document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[opts.SchemaName]
	if !ok || ref.Value == nil {
		return pkgschema.Template{}, fmt.Errorf("openapiimport: schema %q not found", opts.SchemaName)
	}

	fields, err := fieldsFromSchema(ref.Value)
	if err != nil {
		return pkgschema.Template{}, err
	}

	template := pkgschema.Template{
		ID:          opts.TemplateID,
		DisplayName: opts.DisplayName,
		Filename:    opts.Filename,
		Fields:      fields,
	}
	if template.ID == "" {
		template.ID = strings.ToLower(opts.SchemaName)
	}
	if template.DisplayName == "" {
		template.DisplayName = opts.SchemaName
	}
	if template.Filename == "" {
		template.Filename = template.ID + ".txt"
	}
	if err := template.Validate(); err != nil {
		return pkgschema.Template{}, err
	}
	return template, nil
}

// fieldsFromSchema flattens top-level string properties into field specs,
// required properties first is not imposed: properties keep name order so
// imports are deterministic.
func fieldsFromSchema(schema *openapi3.Schema) ([]pkgschema.FieldSpec, error) {
	if len(schema.Properties) == 0 {
		return nil, fmt.Errorf("openapiimport: schema has no properties")
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]pkgschema.FieldSpec, 0, len(names))
	for _, name := range names {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		value := prop.Value
		if value.Type != nil && !value.Type.Is(openapi3.TypeString) {
			// Only string-like properties translate into prompts.
			continue
		}
		field := pkgschema.FieldSpec{
			Key:      name,
			Label:    labelFor(value, name),
			Prompt:   promptFor(value, name),
			Type:     typeFor(value),
			Required: required[name],
			Pattern:  value.Pattern,
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("openapiimport: schema has no string properties")
	}
	return fields, nil
}

func labelFor(schema *openapi3.Schema, name string) string {
	if title := strings.TrimSpace(schema.Title); title != "" {
		return title
	}
	return name
}

func promptFor(schema *openapi3.Schema, name string) string {
	if description := strings.TrimSpace(schema.Description); description != "" {
		return description
	}
	return fmt.Sprintf("Введите %s:", labelFor(schema, name))
}

func typeFor(schema *openapi3.Schema) pkgschema.FieldType {
	switch schema.Format {
	case "date", "date-time":
		return pkgschema.FieldTypeDate
	}
	if schema.Format == "textarea" {
		return pkgschema.FieldTypeText
	}
	return pkgschema.FieldTypeString
}
