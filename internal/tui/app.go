package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-docwizard/internal/logger"
	"github.com/goliatone/go-docwizard/pkg/wizard"
)

const (
	optionEnterText  = "✏️ Ввести текст"
	optionUploadFile = "📎 Файл с реквизитами"
)

// errRetry re-shows the current prompt without advancing the wizard.
var errRetry = errors.New("tui: retry prompt")

// App drives one wizard run over a PromptDriver, translating engine
// replies into prompts and prompt results back into engine calls.
type App struct {
	engine *wizard.Engine
	driver PromptDriver
	userID int64
	log    *logger.Logger
}

// AppOption configures an App.
type AppOption func(*App)

// WithAppLogger attaches a logger.
func WithAppLogger(log *logger.Logger) AppOption {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

// NewApp wires a wizard engine to a prompt driver for one user.
func NewApp(engine *wizard.Engine, driver PromptDriver, userID int64, options ...AppOption) *App {
	app := &App{
		engine: engine,
		driver: driver,
		userID: userID,
		log:    logger.Nop(),
	}
	for _, option := range options {
		option(app)
	}
	return app
}

// Run starts a wizard session and loops until the run finishes or the
// user aborts. An abort cancels the session so no stale state lingers.
func (a *App) Run(ctx context.Context) error {
	reply, err := a.engine.Start(ctx, a.userID)
	if err != nil {
		return err
	}

	for {
		if reply.Text != "" {
			if err := a.driver.Info(ctx, reply.Text); err != nil {
				return err
			}
		}
		if reply.DocumentPath != "" {
			if err := a.driver.Info(ctx, "Документ сохранён: "+reply.DocumentPath); err != nil {
				return err
			}
		}
		if reply.Done {
			return nil
		}

		next, err := a.step(ctx, reply)
		if errors.Is(err, errRetry) {
			continue
		}
		if errors.Is(err, ErrAborted) {
			if _, cancelErr := a.engine.Cancel(ctx, a.userID); cancelErr != nil {
				a.log.Warn("cancel after abort failed", "error", cancelErr)
			}
			return nil
		}
		if err != nil {
			return err
		}
		reply = next
	}
}

// step renders one reply as a prompt and returns the next reply.
func (a *App) step(ctx context.Context, reply wizard.Reply) (wizard.Reply, error) {
	switch {
	case len(reply.Templates) > 0:
		return a.chooseTemplate(ctx, reply)
	case len(reply.Fields) > 0:
		return a.chooseField(ctx, reply)
	default:
		return a.fieldMenu(ctx, reply)
	}
}

func (a *App) chooseTemplate(ctx context.Context, reply wizard.Reply) (wizard.Reply, error) {
	options := make([]string, 0, len(reply.Templates))
	for _, ref := range reply.Templates {
		options = append(options, ref.DisplayName)
	}
	idx, err := a.driver.Select(ctx, SelectConfig{
		Message: "Шаблон документа:",
		Options: options,
	})
	if err != nil {
		return wizard.Reply{}, err
	}
	return a.engine.ChooseTemplate(ctx, a.userID, reply.Templates[idx].ID)
}

func (a *App) chooseField(ctx context.Context, reply wizard.Reply) (wizard.Reply, error) {
	options := make([]string, 0, len(reply.Fields)+1)
	for _, field := range reply.Fields {
		options = append(options, field.Label)
	}
	back := wizard.ActionLabel(wizard.ActionEditBack)
	options = append(options, back)

	idx, err := a.driver.Select(ctx, SelectConfig{
		Message:  "Какое поле изменить?",
		Options:  options,
		PageSize: 12,
	})
	if err != nil {
		return wizard.Reply{}, err
	}
	if idx == len(reply.Fields) {
		return a.engine.HandleAction(ctx, a.userID, wizard.ActionEditBack)
	}
	return a.engine.EditField(ctx, a.userID, reply.Fields[idx].Index)
}

// fieldMenu shows the current prompt with its available actions. States
// that collect free text additionally offer typing and file upload.
func (a *App) fieldMenu(ctx context.Context, reply wizard.Reply) (wizard.Reply, error) {
	textual := allowsText(reply.Actions)

	options := make([]string, 0, len(reply.Actions)+2)
	if textual {
		options = append(options, optionEnterText, optionUploadFile)
	}
	for _, action := range reply.Actions {
		options = append(options, wizard.ActionLabel(action))
	}
	if len(options) == 0 {
		// No menu to show; fall back to plain text entry.
		return a.enterText(ctx)
	}

	idx, err := a.driver.Select(ctx, SelectConfig{
		Message: "Действие:",
		Options: options,
	})
	if err != nil {
		return wizard.Reply{}, err
	}

	if textual {
		switch idx {
		case 0:
			return a.enterText(ctx)
		case 1:
			return a.uploadFile(ctx)
		default:
			return a.engine.HandleAction(ctx, a.userID, reply.Actions[idx-2])
		}
	}
	return a.engine.HandleAction(ctx, a.userID, reply.Actions[idx])
}

func (a *App) enterText(ctx context.Context) (wizard.Reply, error) {
	text, err := a.driver.Input(ctx, InputConfig{Message: "Значение:"})
	if err != nil {
		return wizard.Reply{}, err
	}
	return a.engine.HandleText(ctx, a.userID, text)
}

// uploadFile reads a local text file with company requisites and feeds
// its contents to the engine for extraction.
func (a *App) uploadFile(ctx context.Context) (wizard.Reply, error) {
	path, err := a.driver.Input(ctx, InputConfig{
		Message: "Путь к файлу с реквизитами:",
		Help:    "Текстовый файл с карточкой предприятия",
	})
	if err != nil {
		return wizard.Reply{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return wizard.Reply{}, errRetry
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if infoErr := a.driver.Info(ctx, fmt.Sprintf("Не удалось прочитать файл: %v", err)); infoErr != nil {
			return wizard.Reply{}, infoErr
		}
		return wizard.Reply{}, errRetry
	}
	return a.engine.HandleFile(ctx, a.userID, string(data))
}

// allowsText reports whether the reply came from a state that accepts
// typed input. Confirmation menus only accept their listed actions.
func allowsText(actions []wizard.Action) bool {
	if len(actions) == 0 {
		return true
	}
	for _, action := range actions {
		if action == wizard.ActionConfirm {
			return false
		}
	}
	return true
}
