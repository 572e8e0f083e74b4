// Package autofill computes field values that need no user input: sequence
// numbers, dates and values derived from data collected earlier in the same
// session. Generator-backed fields are out of its scope; those resolve
// through the guided generation sub-flow.
package autofill

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// Context supplies the inputs a derivation may need. Collected holds the
// values resolved so far, keyed by field key.
type Context struct {
	Now           time.Time
	DocumentCount int
	Collected     map[string]string
}

// Russian month names in genitive case, 1-indexed.
var monthNames = [13]string{
	"",
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// cityPattern matches a city marker followed by a comma-delimited segment,
// e.g. "г. Москва," or "город Казань".
var cityPattern = regexp.MustCompile(`(?:г\.|город)\s*([^,]+)`)

// Resolve computes the value for a field's auto rule. The second return is
// false when the rule produced nothing (unset rule, generator rule, or a
// derivation that found no match).
func Resolve(field schema.FieldSpec, ctx Context) (string, bool) {
	switch field.Auto {
	case schema.AutoSequenceNumber:
		n := ctx.DocumentCount + 1
		return fmt.Sprintf("%02d/%02d-%d", n, int(ctx.Now.Month()), ctx.Now.Year()), true
	case schema.AutoToday:
		return ctx.Now.Format("02.01.2006"), true
	case schema.AutoTodayLocalized:
		return fmt.Sprintf("«%02d» %s %d г.", ctx.Now.Day(), monthNames[int(ctx.Now.Month())], ctx.Now.Year()), true
	case schema.AutoCityFromAddress:
		return cityFrom(ctx.Collected[field.Source])
	case schema.AutoStatic:
		if strings.TrimSpace(field.Static) == "" {
			return "", false
		}
		return field.Static, true
	default:
		// AutoNone and AutoGenerator resolve elsewhere.
		return "", false
	}
}

// Apply resolves every auto-tagged field in order and writes the results
// into collected. Fields are processed in collection order so a derivation
// can read values resolved earlier in the same pass.
func Apply(fields []schema.FieldSpec, ctx Context, collected map[string]string) {
	for _, field := range fields {
		if field.Auto == schema.AutoNone || field.Auto == schema.AutoGenerator {
			continue
		}
		if _, exists := collected[field.Key]; exists {
			continue
		}
		local := ctx
		local.Collected = collected
		if value, ok := Resolve(field, local); ok {
			collected[field.Key] = value
		}
	}
}

func cityFrom(address string) (string, bool) {
	if strings.TrimSpace(address) == "" {
		return "", false
	}
	match := cityPattern.FindStringSubmatch(address)
	if match == nil {
		return "", false
	}
	city := strings.TrimSpace(match[1])
	if city == "" {
		return "", false
	}
	return city, true
}
