// Package validate implements per-field input validation for the wizard.
// It is deterministic and side-effect free; the state machine calls it on
// every text transition during collection and editing.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

var (
	// ErrMissingRequired marks an empty value on a required field.
	ErrMissingRequired = errors.New("validate: value is required")
	// ErrPatternMismatch marks a non-empty value that fails the field pattern.
	ErrPatternMismatch = errors.New("validate: value does not match pattern")
)

var patterns struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

// Field validates raw user input against a field spec. Empty or
// whitespace-only input succeeds on optional fields (the value is treated
// as absent, not as an empty string) and fails on required ones. Pattern
// matching is anchored so the entire value must conform.
func Field(field schema.FieldSpec, raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		if field.Required {
			return fmt.Errorf("field %q: %w", field.Key, ErrMissingRequired)
		}
		return nil
	}
	if field.Pattern == "" {
		return nil
	}
	re, err := compile(field.Pattern)
	if err != nil {
		return fmt.Errorf("validate: field %q: bad pattern: %w", field.Key, err)
	}
	if !re.MatchString(value) {
		return fmt.Errorf("field %q: %w", field.Key, ErrPatternMismatch)
	}
	return nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	patterns.mu.RLock()
	re, ok := patterns.cache[pattern]
	patterns.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}

	patterns.mu.Lock()
	if patterns.cache == nil {
		patterns.cache = make(map[string]*regexp.Regexp)
	}
	patterns.cache[pattern] = re
	patterns.mu.Unlock()
	return re, nil
}
