package requisites

import "strings"

// recordLabels drives display order and naming when a saved record is shown
// back to the user.
var recordLabels = []struct {
	key   string
	label string
}{
	{"company_name", "Наименование"},
	{"legal_address", "Юридический адрес"},
	{"phone_email", "Телефон / почта"},
	{"ogrn", "ОГРН"},
	{"inn", "ИНН"},
	{"kpp", "КПП"},
	{"bank_account", "Расчётный счёт"},
	{"corr_account", "Корр. счёт"},
	{"bik", "БИК"},
	{"bank_name", "Банк"},
	{"bank_inn", "ИНН банка"},
	{"bank_address", "Адрес банка"},
	{"director", "Генеральный директор"},
}

// Summary formats an extracted record for display, one "label: value" line
// per known key, skipping absent values.
func Summary(record map[string]string) string {
	var b strings.Builder
	for _, entry := range recordLabels {
		value := strings.TrimSpace(record[entry.key])
		if value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("│ ")
		b.WriteString(entry.label)
		b.WriteString(": ")
		b.WriteString(value)
	}
	return b.String()
}
