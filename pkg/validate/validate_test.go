package validate

import (
	"errors"
	"testing"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

func TestField(t *testing.T) {
	tests := []struct {
		name    string
		field   schema.FieldSpec
		raw     string
		wantErr error
	}{
		{
			name:  "plain value on plain field",
			field: schema.FieldSpec{Key: "name", Required: true},
			raw:   "Иван",
		},
		{
			name:    "empty on required",
			field:   schema.FieldSpec{Key: "name", Required: true},
			raw:     "",
			wantErr: ErrMissingRequired,
		},
		{
			name:    "whitespace on required",
			field:   schema.FieldSpec{Key: "name", Required: true},
			raw:     "   \t",
			wantErr: ErrMissingRequired,
		},
		{
			name:  "empty on optional",
			field: schema.FieldSpec{Key: "note"},
			raw:   "",
		},
		{
			name:  "pattern match",
			field: schema.FieldSpec{Key: "inn", Pattern: `\d{10}|\d{12}`},
			raw:   "7701234567",
		},
		{
			name:  "pattern match long variant",
			field: schema.FieldSpec{Key: "inn", Pattern: `\d{10}|\d{12}`},
			raw:   "770123456789",
		},
		{
			name:    "pattern rejects partial match",
			field:   schema.FieldSpec{Key: "inn", Pattern: `\d{10}`},
			raw:     "7701234567abc",
			wantErr: ErrPatternMismatch,
		},
		{
			name:    "pattern rejects wrong length",
			field:   schema.FieldSpec{Key: "inn", Pattern: `\d{10}|\d{12}`},
			raw:     "77012",
			wantErr: ErrPatternMismatch,
		},
		{
			name:  "value trimmed before matching",
			field: schema.FieldSpec{Key: "inn", Pattern: `\d{10}`},
			raw:   "  7701234567  ",
		},
		{
			name:  "empty optional skips pattern",
			field: schema.FieldSpec{Key: "inn", Pattern: `\d{10}`},
			raw:   "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Field(tc.field, tc.raw)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestFieldBadPattern(t *testing.T) {
	field := schema.FieldSpec{Key: "x", Pattern: `([`}
	if err := Field(field, "value"); err == nil {
		t.Fatalf("expected error for invalid pattern")
	}
}
