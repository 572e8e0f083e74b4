// Package wizard implements the per-user conversational collection state
// machine: ordered field traversal with skip/back/edit semantics, auto-fill
// at session start, requisite mapping on file upload, and the guided
// generation sub-flow for AI-assisted fields.
//
// The engine assumes the surrounding dispatcher serializes all calls for a
// given user. Every transition follows the same contract: load the session,
// compute the new state on a clone, and either save it fully or leave the
// stored state untouched.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-docwizard/internal/logger"
	"github.com/goliatone/go-docwizard/pkg/autofill"
	"github.com/goliatone/go-docwizard/pkg/requisites"
	"github.com/goliatone/go-docwizard/pkg/schema"
	"github.com/goliatone/go-docwizard/pkg/validate"
)

// minExtractionTextLen is the minimum trimmed document text length, in
// characters, before the external extractor is called at all.
const minExtractionTextLen = 20

// Store is the durable per-user session state contract. Implementations
// must return defensive copies from Load and treat each Save as atomic for
// the user: a concurrent Load never observes a partial update.
type Store interface {
	Load(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, userID int64, session *Session) error
	Clear(ctx context.Context, userID int64) error
}

// Extractor turns raw document text into a flat requisite record.
type Extractor interface {
	Extract(ctx context.Context, text string) (map[string]string, error)
}

// Generator produces field text from a user hint. ConvertGenitive is the
// secondary transform applied after accepting a business-type value.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ConvertGenitive(ctx context.Context, term string) (string, error)
}

// Renderer materializes the final document and returns its file path.
type Renderer interface {
	Render(ctx context.Context, templateFilename string, values map[string]string) (string, error)
}

// DocumentRecord is the metadata persisted after a successful render.
type DocumentRecord struct {
	TemplateID   string
	TemplateName string
	Values       map[string]string
	CreatedAt    time.Time
}

// DocumentLog records generated documents. CountDocuments feeds the
// sequence-number auto rule.
type DocumentLog interface {
	CountDocuments(ctx context.Context, userID int64) (int, error)
	Append(ctx context.Context, userID int64, record DocumentRecord) error
}

// RequisiteSource returns the user's saved company record, if any, for
// pre-filling executor fields at session start.
type RequisiteSource interface {
	Get(ctx context.Context, userID int64) (map[string]string, error)
}

// Engine drives all wizard transitions.
type Engine struct {
	store     Store
	registry  schema.Registry
	extractor Extractor
	generator Generator
	renderer  Renderer
	docs      DocumentLog
	saved     RequisiteSource
	log       *logger.Logger
	now       func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithExtractor wires the external extraction contract.
func WithExtractor(e Extractor) Option {
	return func(eng *Engine) { eng.extractor = e }
}

// WithGenerator wires the external generation contract.
func WithGenerator(g Generator) Option {
	return func(eng *Engine) { eng.generator = g }
}

// WithRenderer wires the document render contract.
func WithRenderer(r Renderer) Option {
	return func(eng *Engine) { eng.renderer = r }
}

// WithDocumentLog wires the per-user document history.
func WithDocumentLog(d DocumentLog) Option {
	return func(eng *Engine) { eng.docs = d }
}

// WithRequisiteSource wires the saved-requisites lookup used at session start.
func WithRequisiteSource(s RequisiteSource) Option {
	return func(eng *Engine) { eng.saved = s }
}

// WithLogger overrides the default nop logger.
func WithLogger(log *logger.Logger) Option {
	return func(eng *Engine) {
		if log != nil {
			eng.log = log
		}
	}
}

// WithClock overrides the time source. Used by auto-fill and history.
func WithClock(now func() time.Time) Option {
	return func(eng *Engine) {
		if now != nil {
			eng.now = now
		}
	}
}

// New constructs an engine. Store and registry are mandatory; external
// collaborators are optional and the matching features degrade gracefully
// when absent.
func New(store Store, registry schema.Registry, options ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("wizard: store is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("wizard: registry is required")
	}
	eng := &Engine{
		store:    store,
		registry: registry,
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(eng)
	}
	return eng, nil
}

// Start begins a new wizard run, replacing any previous session for the
// user, and offers the available templates.
func (e *Engine) Start(ctx context.Context, userID int64) (Reply, error) {
	templates := e.registry.ListTemplates()
	if len(templates) == 0 {
		return Reply{Text: textNoTemplates, Done: true}, nil
	}

	session := &Session{
		Phase:        PhaseSelectingTemplate,
		Collected:    map[string]string{},
		Skipped:      map[string]bool{},
		EditingIndex: -1,
	}
	if err := e.store.Save(ctx, userID, session); err != nil {
		return Reply{}, fmt.Errorf("wizard: save session: %w", err)
	}
	return Reply{
		Text:      textChooseTemplate,
		Templates: templates,
		Actions:   []Action{ActionCancel},
	}, nil
}

// ChooseTemplate snapshots the template's fields, runs auto-fill and the
// saved-requisites pre-fill, and enters collection at the first unfilled
// field (or goes straight to confirmation when nothing is left to ask).
func (e *Engine) ChooseTemplate(ctx context.Context, userID int64, templateID string) (Reply, error) {
	template, ok := e.registry.GetTemplate(templateID)
	if !ok {
		return Reply{Text: textTemplateNotFound}, nil
	}

	session := &Session{
		TemplateID:       template.ID,
		TemplateName:     template.DisplayName,
		TemplateFilename: template.Filename,
		Fields:           template.Snapshot(),
		Collected:        map[string]string{},
		Skipped:          map[string]bool{},
		Phase:            PhaseCollecting,
		EditingIndex:     -1,
	}

	count := 0
	if e.docs != nil {
		if n, err := e.docs.CountDocuments(ctx, userID); err != nil {
			e.log.Warn("document count unavailable", "user", userID, "error", err)
		} else {
			count = n
		}
	}
	autofill.Apply(session.Fields, autofill.Context{
		Now:           e.now(),
		DocumentCount: count,
	}, session.Collected)

	if e.saved != nil {
		record, err := e.saved.Get(ctx, userID)
		if err != nil {
			e.log.Warn("saved requisites unavailable", "user", userID, "error", err)
		} else {
			for key, value := range requisites.Map(record, session.Fields, requisites.SideExecutor) {
				session.setValue(key, value)
			}
		}
	}

	return e.advance(ctx, userID, session, 0)
}

// HandleText processes a plain text reply according to the current phase.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) (Reply, error) {
	session, err := e.load(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	switch session.Phase {
	case PhaseSelectingTemplate:
		return Reply{Text: textPickTemplate}, nil
	case PhaseConfirming:
		return Reply{Text: textUseButtons}, nil
	case PhaseGenerating:
		return Reply{Text: textGeneratingBusy}, nil
	case PhaseEditingField:
		return e.applyText(ctx, userID, session, session.EditingIndex, text, true)
	default:
		field := session.currentField()
		if field.Auto == schema.AutoGenerator && !session.Gen.Manual && session.Collected[field.Key] == "" {
			return e.generateCandidate(ctx, userID, session, text)
		}
		return e.applyText(ctx, userID, session, session.Cursor, text, false)
	}
}

// applyText validates and stores input for one field. When editing is true
// every successful outcome returns to confirmation instead of advancing.
func (e *Engine) applyText(ctx context.Context, userID int64, session *Session, index int, text string, editing bool) (Reply, error) {
	field := session.Fields[index]
	value := strings.TrimSpace(text)

	if value == "" {
		if field.Required {
			// Invalid input leaves the stored session untouched.
			return Reply{
				Text:    validationMessage(field, validate.Field(field, value)),
				Actions: e.fieldActions(session, index, editing),
			}, nil
		}
		session.markSkipped(field.Key)
		session.Gen = GenerationState{}
		return e.leaveField(ctx, userID, session, index, editing)
	}

	if err := validate.Field(field, value); err != nil {
		return Reply{
			Text:    validationMessage(field, err),
			Actions: e.fieldActions(session, index, editing),
		}, nil
	}

	session.setValue(field.Key, value)
	session.Gen = GenerationState{}
	return e.leaveField(ctx, userID, session, index, editing)
}

// HandleAction processes a button tap.
func (e *Engine) HandleAction(ctx context.Context, userID int64, action Action) (Reply, error) {
	session, err := e.load(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoSession) && action == ActionCancel {
			return Reply{Text: textNothingToCancel, Done: true}, nil
		}
		return Reply{}, err
	}

	if session.Phase == PhaseGenerating {
		return Reply{Text: textGeneratingBusy}, nil
	}
	if action == ActionCancel {
		if err := e.store.Clear(ctx, userID); err != nil {
			return Reply{}, fmt.Errorf("wizard: clear session: %w", err)
		}
		return Reply{Text: textCancelled, Done: true}, nil
	}

	switch session.Phase {
	case PhaseCollecting:
		return e.collectingAction(ctx, userID, session, action)
	case PhaseEditingField:
		return e.editingAction(ctx, userID, session, action)
	case PhaseConfirming:
		return e.confirmingAction(ctx, userID, session, action)
	default:
		return Reply{Text: textUseButtons}, nil
	}
}

func (e *Engine) collectingAction(ctx context.Context, userID int64, session *Session, action Action) (Reply, error) {
	switch action {
	case ActionBack:
		if session.Cursor == 0 {
			return Reply{
				Text:    textFirstField,
				Actions: e.fieldActions(session, session.Cursor, false),
			}, nil
		}
		session.Cursor--
		session.Gen = GenerationState{}
		if err := e.save(ctx, userID, session); err != nil {
			return Reply{}, err
		}
		return e.promptReply(session, session.Cursor, true, false), nil
	case ActionKeep:
		session.Gen = GenerationState{}
		return e.advance(ctx, userID, session, session.Cursor+1)
	case ActionSkip:
		field := session.currentField()
		if field.Required {
			return Reply{
				Text:    textSkipRequired,
				Actions: e.fieldActions(session, session.Cursor, false),
			}, nil
		}
		session.markSkipped(field.Key)
		session.Gen = GenerationState{}
		return e.advance(ctx, userID, session, session.Cursor+1)
	case ActionAccept, ActionRegenerate, ActionManual:
		return e.generationAction(ctx, userID, session, action, false)
	default:
		return Reply{Text: textUseButtons}, nil
	}
}

func (e *Engine) editingAction(ctx context.Context, userID int64, session *Session, action Action) (Reply, error) {
	switch action {
	case ActionKeep, ActionEditBack:
		session.Gen = GenerationState{}
		return e.toConfirming(ctx, userID, session)
	case ActionSkip:
		field := session.Fields[session.EditingIndex]
		if field.Required {
			return Reply{
				Text:    textSkipRequired,
				Actions: e.fieldActions(session, session.EditingIndex, true),
			}, nil
		}
		session.markSkipped(field.Key)
		session.Gen = GenerationState{}
		return e.toConfirming(ctx, userID, session)
	case ActionAccept, ActionRegenerate, ActionManual:
		return e.generationAction(ctx, userID, session, action, true)
	default:
		return Reply{Text: textUseButtons}, nil
	}
}

func (e *Engine) confirmingAction(ctx context.Context, userID int64, session *Session, action Action) (Reply, error) {
	switch action {
	case ActionConfirm:
		return e.generate(ctx, userID, session)
	case ActionEdit:
		options := make([]FieldOption, 0, len(session.Fields))
		for i, field := range session.Fields {
			options = append(options, FieldOption{Index: i, Label: field.Label})
		}
		return Reply{
			Text:    textEditPick,
			Fields:  options,
			Actions: []Action{ActionEditBack, ActionCancel},
		}, nil
	case ActionEditBack:
		return e.confirmReply(session), nil
	default:
		return Reply{Text: textUseButtons}, nil
	}
}

// EditField moves the session into single-field editing for the picked
// index. Every successful outcome there returns to confirmation.
func (e *Engine) EditField(ctx context.Context, userID int64, index int) (Reply, error) {
	session, err := e.load(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if session.Phase != PhaseConfirming {
		return Reply{Text: textUseButtons}, nil
	}
	if index < 0 || index >= len(session.Fields) {
		return Reply{Text: textUseButtons}, nil
	}

	session.Phase = PhaseEditingField
	session.EditingIndex = index
	if err := e.save(ctx, userID, session); err != nil {
		return Reply{}, err
	}
	return e.promptReply(session, index, true, true), nil
}

// HandleFile processes an uploaded company card that was already reduced to
// plain text by the transport. The extracted record is mapped onto the side
// detected at the current field, and collection restarts its unfilled scan
// from the beginning because earlier fields may now be filled.
func (e *Engine) HandleFile(ctx context.Context, userID int64, text string) (Reply, error) {
	session, err := e.load(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if session.Phase != PhaseCollecting {
		return Reply{Text: textUseButtons}, nil
	}
	if e.extractor == nil {
		return Reply{Text: textExtractNoMatch}, nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minExtractionTextLen {
		return Reply{
			Text:    textExtractTooShort,
			Actions: e.fieldActions(session, session.Cursor, false),
		}, nil
	}

	wantTemplate, wantCursor := session.TemplateID, session.Cursor

	record, err := e.extractor.Extract(ctx, text)
	if err != nil {
		e.log.Warn("extraction failed", "user", userID, "error", &ExtractionError{Err: err})
		return Reply{
			Text:    textExtractFailed,
			Actions: e.fieldActions(session, session.Cursor, false),
		}, nil
	}

	// The extraction ran against a snapshot of the session; a completion
	// for a session that moved on is discarded.
	session, err = e.load(ctx, userID)
	if err != nil || session.Phase != PhaseCollecting ||
		session.TemplateID != wantTemplate || session.Cursor != wantCursor {
		return Reply{Text: textExtractStale}, nil
	}

	side := requisites.DetectSide(session.Fields, session.Cursor)
	matched := requisites.Map(record, session.Fields, side)
	if len(matched) == 0 {
		return Reply{
			Text:    textExtractNoMatch,
			Actions: e.fieldActions(session, session.Cursor, false),
		}, nil
	}
	for key, value := range matched {
		session.setValue(key, value)
	}

	next := nextUnfilledIndex(session.Fields, session.Collected, session.Skipped, 0)
	if next < 0 {
		reply, err := e.toConfirming(ctx, userID, session)
		if err != nil {
			return Reply{}, err
		}
		reply.Text = fmt.Sprintf("Заполнено полей из файла: %d.\n\n%s", len(matched), reply.Text)
		return reply, nil
	}

	session.Cursor = next
	session.Gen = GenerationState{}
	if err := e.save(ctx, userID, session); err != nil {
		return Reply{}, err
	}
	remaining := countUnfilled(session)
	reply := e.promptReply(session, next, false, false)
	reply.Text = fmt.Sprintf("Заполнено полей из файла: %d, осталось: %d.\n\n%s", len(matched), remaining, reply.Text)
	return reply, nil
}

// Cancel clears the user's session regardless of phase, except while a
// render is in flight.
func (e *Engine) Cancel(ctx context.Context, userID int64) (Reply, error) {
	return e.HandleAction(ctx, userID, ActionCancel)
}

// generate runs the Confirming→Generating transition: render, persist
// history, then clear the session whether the render succeeded or not.
func (e *Engine) generate(ctx context.Context, userID int64, session *Session) (Reply, error) {
	if e.renderer == nil {
		return Reply{}, fmt.Errorf("wizard: renderer is not configured")
	}

	session.Phase = PhaseGenerating
	if err := e.save(ctx, userID, session); err != nil {
		return Reply{}, err
	}

	values := renderValues(session)
	path, err := e.renderer.Render(ctx, session.TemplateFilename, values)
	if err != nil {
		e.log.Error("render failed", "user", userID, "template", session.TemplateID, "error", &RenderError{Err: err})
		if clearErr := e.store.Clear(ctx, userID); clearErr != nil {
			return Reply{}, fmt.Errorf("wizard: clear session: %w", clearErr)
		}
		return Reply{Text: textRenderFailed, Done: true}, nil
	}

	if e.docs != nil {
		record := DocumentRecord{
			TemplateID:   session.TemplateID,
			TemplateName: session.TemplateName,
			Values:       values,
			CreatedAt:    e.now(),
		}
		if err := e.docs.Append(ctx, userID, record); err != nil {
			e.log.Warn("history append failed", "user", userID, "error", err)
		}
	}

	if err := e.store.Clear(ctx, userID); err != nil {
		return Reply{}, fmt.Errorf("wizard: clear session: %w", err)
	}
	e.log.Info("document generated", "user", userID, "template", session.TemplateID, "path", path)
	return Reply{Text: textDocumentReady, DocumentPath: path, Done: true}, nil
}

// renderValues builds the render context: collected values with every
// optional or skipped key defaulted to the empty string, so downstream
// conditional logic never sees a missing key.
func renderValues(session *Session) map[string]string {
	values := make(map[string]string, len(session.Fields)+len(session.Collected))
	for _, field := range session.Fields {
		values[field.Key] = ""
	}
	for key, value := range session.Collected {
		values[key] = value
	}
	return values
}

// leaveField finalizes one field visit and navigates onward.
func (e *Engine) leaveField(ctx context.Context, userID int64, session *Session, index int, editing bool) (Reply, error) {
	if editing {
		return e.toConfirming(ctx, userID, session)
	}
	return e.advance(ctx, userID, session, index+1)
}

// advance moves the cursor to the next unfilled field at or after start,
// or enters confirmation when none remains, and persists the session.
func (e *Engine) advance(ctx context.Context, userID int64, session *Session, start int) (Reply, error) {
	next := nextUnfilledIndex(session.Fields, session.Collected, session.Skipped, start)
	if next < 0 {
		return e.toConfirming(ctx, userID, session)
	}
	session.Phase = PhaseCollecting
	session.Cursor = next
	if err := e.save(ctx, userID, session); err != nil {
		return Reply{}, err
	}
	return e.promptReply(session, next, false, false), nil
}

func (e *Engine) toConfirming(ctx context.Context, userID int64, session *Session) (Reply, error) {
	session.Phase = PhaseConfirming
	session.EditingIndex = -1
	session.Gen = GenerationState{}
	if err := e.save(ctx, userID, session); err != nil {
		return Reply{}, err
	}
	return e.confirmReply(session), nil
}

func (e *Engine) confirmReply(session *Session) Reply {
	return Reply{
		Text:    buildSummary(session.Fields, session.Collected, session.Skipped),
		Actions: []Action{ActionConfirm, ActionEdit, ActionCancel},
	}
}

// promptReply builds the prompt for one field. withCurrent adds the stored
// value (or skip marker) and the keep option, used after Back and in edits.
func (e *Engine) promptReply(session *Session, index int, withCurrent, editing bool) Reply {
	field := session.Fields[index]
	text := field.Prompt
	if text == "" {
		text = field.Label + ":"
	}
	if withCurrent {
		text += "\n\nТекущее значение: " + displayValue(field, session.Collected, session.Skipped)
	}
	return Reply{
		Text:    text,
		Actions: e.fieldActions(session, index, editing, withCurrent),
	}
}

// fieldActions lists the legal buttons for a field visit. The optional
// trailing flag adds Keep (used when the current value is shown).
func (e *Engine) fieldActions(session *Session, index int, editing bool, withKeep ...bool) []Action {
	var actions []Action
	if len(withKeep) > 0 && withKeep[0] {
		actions = append(actions, ActionKeep)
	}
	if !editing && index > 0 {
		actions = append(actions, ActionBack)
	}
	if !session.Fields[index].Required {
		actions = append(actions, ActionSkip)
	}
	if editing {
		actions = append(actions, ActionEditBack)
	}
	actions = append(actions, ActionCancel)
	return actions
}

func countUnfilled(session *Session) int {
	count := 0
	for i := range session.Fields {
		if nextUnfilledIndex(session.Fields, session.Collected, session.Skipped, i) == i {
			count++
		}
	}
	return count
}

func validationMessage(field schema.FieldSpec, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, validate.ErrMissingRequired) {
		return fmt.Sprintf("Поле «%s» обязательно для заполнения.", field.Label)
	}
	return fmt.Sprintf("Неверный формат для «%s». Попробуйте ещё раз.", field.Label)
}

func (e *Engine) load(ctx context.Context, userID int64) (*Session, error) {
	session, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wizard: load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoSession
	}
	return session, nil
}

func (e *Engine) save(ctx context.Context, userID int64, session *Session) error {
	if err := e.store.Save(ctx, userID, session); err != nil {
		return fmt.Errorf("wizard: save session: %w", err)
	}
	return nil
}
