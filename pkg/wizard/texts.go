package wizard

// User-facing texts, Russian like the documents the wizard produces.
const (
	textChooseTemplate   = "Выберите шаблон документа:"
	textTemplateNotFound = "Шаблон не найден."
	textNoTemplates      = "Нет доступных шаблонов."
	textCancelled        = "Создание документа отменено."
	textNothingToCancel  = "Нечего отменять."
	textFirstField       = "Это первое поле, назад некуда."
	textSkipRequired     = "Это поле обязательно, его нельзя пропустить."
	textUseButtons       = "Используйте кнопки под сообщением."
	textPickTemplate     = "Сначала выберите шаблон."
	textGeneratingBusy   = "Документ формируется, подождите."
	textConfirmHeader    = "Проверьте данные:"
	textEditPick         = "Какое поле изменить?"
	textSkippedMark      = "(пропущено)"
	textEmptyMark        = "—"
	textDocumentReady    = "Документ готов."
	textRenderFailed     = "Не удалось сформировать документ. Данные сессии сброшены, начните заново."
	textExtractFailed    = "Не удалось разобрать файл. Попробуйте ещё раз."
	textExtractTooShort  = "В файле слишком мало текста для разбора."
	textExtractNoMatch   = "В файле не нашлось подходящих реквизитов."
	textExtractStale     = "Сессия изменилась, результат разбора файла отброшен."
	textGenerateFailed   = "Не удалось сгенерировать текст. Попробуйте ещё раз."
	textGenerateManual   = "Хорошо, введите значение вручную:"
	textGenerateChoose   = "Принять вариант, сгенерировать заново или ввести вручную?"
)

// actionLabels are the display names front-ends use for buttons.
var actionLabels = map[Action]string{
	ActionBack:       "↩️ Назад",
	ActionKeep:       "Оставить текущее",
	ActionSkip:       "⏭ Пропустить",
	ActionCancel:     "❌ Отмена",
	ActionConfirm:    "✅ Создать документ",
	ActionEdit:       "✏️ Изменить",
	ActionEditBack:   "↩️ Назад к подтверждению",
	ActionAccept:     "✅ Принять",
	ActionRegenerate: "🔄 Перегенерировать",
	ActionManual:     "✏️ Ввести вручную",
}

// ActionLabel returns the display name of an action.
func ActionLabel(action Action) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return string(action)
}
