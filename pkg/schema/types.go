package schema

// FieldType is the simplified enum for collectible field kinds.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeText   FieldType = "text"
	FieldTypeDate   FieldType = "date"
)

// AutoRule is the closed set of automatic derivation strategies. An empty
// rule means the field is collected from user input only.
type AutoRule string

const (
	AutoNone AutoRule = ""
	// AutoSequenceNumber formats the user's next document ordinal as NN/MM-YYYY.
	AutoSequenceNumber AutoRule = "sequence_number"
	// AutoToday resolves to the current date as DD.MM.YYYY.
	AutoToday AutoRule = "today"
	// AutoTodayLocalized resolves to the Russian long date form.
	AutoTodayLocalized AutoRule = "today_localized"
	// AutoCityFromAddress derives a city token from an already collected address.
	AutoCityFromAddress AutoRule = "city_from_address"
	// AutoStatic resolves to the fixed value stored on the FieldSpec.
	AutoStatic AutoRule = "static"
	// AutoGenerator defers the value to the guided generation sub-flow.
	AutoGenerator AutoRule = "generator"
)

// FieldSpec describes one field of a document template. Specs are immutable
// once loaded; sessions operate on deep copies (see Template.Snapshot).
type FieldSpec struct {
	Key      string    `json:"key" yaml:"key"`
	Label    string    `json:"label" yaml:"label"`
	Prompt   string    `json:"prompt" yaml:"prompt"`
	Type     FieldType `json:"type,omitempty" yaml:"type,omitempty"`
	Required bool      `json:"required" yaml:"required"`
	// Pattern is an optional validation regex applied to non-empty input.
	// Matching is anchored: the entire value must conform.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// Group labels the summary section the field belongs to. It affects
	// only display ordering, never collection order.
	Group string   `json:"group,omitempty" yaml:"group,omitempty"`
	Auto  AutoRule `json:"auto,omitempty" yaml:"auto,omitempty"`
	// Static holds the fixed value for AutoStatic fields.
	Static string `json:"static,omitempty" yaml:"static,omitempty"`
	// Source names the collected field an AutoCityFromAddress rule reads from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Template couples an ordered FieldSpec collection with its render target.
// Collection order is the canonical prompting order.
type Template struct {
	ID          string      `json:"id" yaml:"id"`
	DisplayName string      `json:"display_name" yaml:"display_name"`
	Filename    string      `json:"filename" yaml:"filename"`
	Fields      []FieldSpec `json:"fields" yaml:"fields"`
}

// Snapshot returns a deep copy of the field collection so an in-flight
// session is insulated from later registry mutation.
func (t Template) Snapshot() []FieldSpec {
	if len(t.Fields) == 0 {
		return nil
	}
	out := make([]FieldSpec, len(t.Fields))
	copy(out, t.Fields)
	return out
}

// TemplateRef provides minimal metadata about an available template.
type TemplateRef struct {
	ID          string
	DisplayName string
}

// Registry is the read-only field schema source consumed by the wizard.
type Registry interface {
	ListTemplates() []TemplateRef
	GetTemplate(id string) (Template, bool)
}
