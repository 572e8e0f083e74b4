// Package render materializes document templates. Templates are text files
// with Jinja-style {{ key }} placeholders; the engine injects the
// generation date and a document number on top of the collected values so
// every template sees a complete context.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"

	"github.com/goliatone/go-docwizard/pkg/wizard"
)

// Injected context keys.
const (
	keyGenerationDate = "generation_date"
	keyDocumentNumber = "document_number"
)

// Engine renders templates from a directory into an output directory.
type Engine struct {
	mu          sync.RWMutex
	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	outputDir   string
	now         func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the time source used for injected keys.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an engine reading templates from templatesDir and writing
// rendered documents under outputDir.
func New(templatesDir, outputDir string, options ...Option) (*Engine, error) {
	if strings.TrimSpace(templatesDir) == "" {
		return nil, fmt.Errorf("render: templates dir is required")
	}
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("render: output dir is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create output dir: %w", err)
	}

	loader, err := pongo2.NewLocalFileSystemLoader(templatesDir)
	if err != nil {
		return nil, fmt.Errorf("render: create template loader: %w", err)
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("docwizard", loader),
		templates:   make(map[string]*pongo2.Template),
		outputDir:   outputDir,
		now:         time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(engine)
	}
	return engine, nil
}

// Render executes the named template against the collected values plus the
// injected keys and writes the result to a uniquely named output file,
// returning its path.
func (e *Engine) Render(ctx context.Context, templateFilename string, values map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := e.template(templateFilename)
	if err != nil {
		return "", err
	}

	now := e.now()
	viewContext := make(pongo2.Context, len(values)+2)
	for key, value := range values {
		viewContext[key] = value
	}
	viewContext[keyGenerationDate] = now.Format("02.01.2006")
	viewContext[keyDocumentNumber] = documentNumber(now)

	e.mu.RLock()
	rendered, err := tmpl.Execute(viewContext)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("render: execute template %q: %w", templateFilename, err)
	}

	name := strings.TrimSuffix(filepath.Base(templateFilename), filepath.Ext(templateFilename))
	outPath := filepath.Join(e.outputDir, fmt.Sprintf("%s_%s%s", name, uuid.NewString()[:8], outputExt(templateFilename)))
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("render: write output: %w", err)
	}
	return outPath, nil
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}

// documentNumber builds a short unique number: YYYYMMDD-XXXX.
func documentNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return now.Format("20060102") + "-" + suffix
}

func outputExt(templateFilename string) string {
	if ext := filepath.Ext(templateFilename); ext != "" {
		return ext
	}
	return ".txt"
}

var _ wizard.Renderer = (*Engine)(nil)
