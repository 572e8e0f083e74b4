package wizard

import (
	"context"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Field key whose accepted value additionally triggers the genitive
// transform, and the derived key the result is stored under.
const (
	businessTypeKey    = "business_type"
	businessTypeGenKey = "business_type_genitive"
)

var sanitizerOnce = sync.OnceValue(func() *bluemonday.Policy {
	return bluemonday.StrictPolicy()
})

// sanitizeGenerated strips any markup the generator may have produced
// before the text is committed as a field value.
func sanitizeGenerated(text string) string {
	clean := sanitizerOnce().Sanitize(text)
	return strings.TrimSpace(html.UnescapeString(clean))
}

// generateCandidate handles the first text reply on a generator-tagged
// field: call the external generator keyed by the input and hold the
// candidate in session scratch space instead of advancing.
func (e *Engine) generateCandidate(ctx context.Context, userID int64, session *Session, input string) (Reply, error) {
	input = strings.TrimSpace(input)
	field := session.currentField()
	if input == "" {
		// Empty input keeps ordinary semantics: skip when optional,
		// re-prompt when required.
		return e.applyText(ctx, userID, session, session.Cursor, input, false)
	}
	if e.generator == nil {
		// Without a generator the field degrades to manual input.
		return e.applyText(ctx, userID, session, session.Cursor, input, false)
	}

	candidate, err := e.generator.Generate(ctx, input)
	if err != nil {
		// The session is preserved; the user retries with new input.
		e.log.Warn("generation failed", "user", userID, "field", field.Key, "error", &GenerationError{Err: err})
		return Reply{
			Text:    textGenerateFailed,
			Actions: e.fieldActions(session, session.Cursor, false),
		}, nil
	}

	candidate = sanitizeGenerated(candidate)
	session.Gen = GenerationState{Active: true, Candidate: candidate, Source: input}
	if err := e.save(ctx, userID, session); err != nil {
		return Reply{}, err
	}
	return Reply{
		Text:    candidate + "\n\n" + textGenerateChoose,
		Actions: []Action{ActionAccept, ActionRegenerate, ActionManual, ActionCancel},
	}, nil
}

// generationAction resolves the accept/regenerate/manual choice for the
// pending candidate.
func (e *Engine) generationAction(ctx context.Context, userID int64, session *Session, action Action, editing bool) (Reply, error) {
	index := session.Cursor
	if editing {
		index = session.EditingIndex
	}
	field := session.Fields[index]

	switch action {
	case ActionAccept:
		if !session.Gen.Active || session.Gen.Candidate == "" {
			return Reply{Text: textUseButtons}, nil
		}
		session.setValue(field.Key, session.Gen.Candidate)
		source := session.Gen.Source
		session.Gen = GenerationState{}
		if field.Key == businessTypeKey {
			e.deriveGenitive(ctx, session, source)
		}
		return e.leaveField(ctx, userID, session, index, editing)
	case ActionRegenerate:
		session.Gen = GenerationState{}
		if err := e.save(ctx, userID, session); err != nil {
			return Reply{}, err
		}
		return e.promptReply(session, index, false, editing), nil
	case ActionManual:
		session.Gen = GenerationState{Manual: true}
		if err := e.save(ctx, userID, session); err != nil {
			return Reply{}, err
		}
		reply := e.promptReply(session, index, false, editing)
		reply.Text = textGenerateManual + "\n\n" + reply.Text
		return reply, nil
	default:
		return Reply{Text: textUseButtons}, nil
	}
}

// deriveGenitive runs the secondary transform after a business-type value
// is accepted. Best effort: failure does not block advancement.
func (e *Engine) deriveGenitive(ctx context.Context, session *Session, source string) {
	if e.generator == nil || strings.TrimSpace(source) == "" {
		return
	}
	derived, err := e.generator.ConvertGenitive(ctx, source)
	if err != nil {
		e.log.Warn("genitive transform failed", "source", source, "error", err)
		return
	}
	if derived = strings.TrimSpace(derived); derived != "" {
		session.Collected[businessTypeGenKey] = derived
	}
}
