package wizard

import "github.com/goliatone/go-docwizard/pkg/schema"

// Action is a button-style input the wizard may offer alongside a prompt.
type Action string

const (
	ActionBack       Action = "back"
	ActionKeep       Action = "keep"
	ActionSkip       Action = "skip"
	ActionCancel     Action = "cancel"
	ActionConfirm    Action = "confirm"
	ActionEdit       Action = "edit"
	ActionEditBack   Action = "edit_back"
	ActionAccept     Action = "accept"
	ActionRegenerate Action = "regenerate"
	ActionManual     Action = "manual"
)

// FieldOption is one entry of the edit-field picker.
type FieldOption struct {
	Index int
	Label string
}

// Reply is the response directive a transition produces: what to tell the
// user and which inputs are legal next.
type Reply struct {
	Text    string
	Actions []Action
	// Fields carries the edit picker entries when the user asked to edit.
	Fields []FieldOption
	// Templates carries the available templates while selecting one.
	Templates []schema.TemplateRef
	// DocumentPath is set after a successful render.
	DocumentPath string
	// Done marks the end of this wizard run (cancelled or generated).
	Done bool
}

func (r Reply) offers(action Action) bool {
	for _, a := range r.Actions {
		if a == action {
			return true
		}
	}
	return false
}
