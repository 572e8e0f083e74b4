package autofill

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

var march5 = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		field  schema.FieldSpec
		ctx    Context
		want   string
		wantOK bool
	}{
		{
			name:   "sequence number",
			field:  schema.FieldSpec{Key: "n", Auto: schema.AutoSequenceNumber},
			ctx:    Context{Now: march5, DocumentCount: 4},
			want:   "05/03-2024",
			wantOK: true,
		},
		{
			name:   "sequence number first document",
			field:  schema.FieldSpec{Key: "n", Auto: schema.AutoSequenceNumber},
			ctx:    Context{Now: march5},
			want:   "01/03-2024",
			wantOK: true,
		},
		{
			name:   "today",
			field:  schema.FieldSpec{Key: "d", Auto: schema.AutoToday},
			ctx:    Context{Now: march5},
			want:   "05.03.2024",
			wantOK: true,
		},
		{
			name:   "today localized",
			field:  schema.FieldSpec{Key: "d", Auto: schema.AutoTodayLocalized},
			ctx:    Context{Now: march5},
			want:   "«05» марта 2024 г.",
			wantOK: true,
		},
		{
			name:   "city with short marker",
			field:  schema.FieldSpec{Key: "c", Auto: schema.AutoCityFromAddress, Source: "addr"},
			ctx:    Context{Collected: map[string]string{"addr": "111024, г. Москва, ул. Авиамоторная 12"}},
			want:   "Москва",
			wantOK: true,
		},
		{
			name:   "city with long marker",
			field:  schema.FieldSpec{Key: "c", Auto: schema.AutoCityFromAddress, Source: "addr"},
			ctx:    Context{Collected: map[string]string{"addr": "город Казань, ул. Баумана 1"}},
			want:   "Казань",
			wantOK: true,
		},
		{
			name:  "city absent from address",
			field: schema.FieldSpec{Key: "c", Auto: schema.AutoCityFromAddress, Source: "addr"},
			ctx:   Context{Collected: map[string]string{"addr": "ул. Ленина 5"}},
		},
		{
			name:  "city with empty source",
			field: schema.FieldSpec{Key: "c", Auto: schema.AutoCityFromAddress, Source: "addr"},
			ctx:   Context{Collected: map[string]string{}},
		},
		{
			name:   "static",
			field:  schema.FieldSpec{Key: "s", Auto: schema.AutoStatic, Static: "УСН"},
			ctx:    Context{},
			want:   "УСН",
			wantOK: true,
		},
		{
			name:  "static with empty value",
			field: schema.FieldSpec{Key: "s", Auto: schema.AutoStatic, Static: "  "},
			ctx:   Context{},
		},
		{
			name:  "none resolves nothing",
			field: schema.FieldSpec{Key: "x"},
			ctx:   Context{Now: march5},
		},
		{
			name:  "generator resolves elsewhere",
			field: schema.FieldSpec{Key: "g", Auto: schema.AutoGenerator},
			ctx:   Context{Now: march5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Resolve(tc.field, tc.ctx)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Resolve = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestApplyOrderAndDerivation(t *testing.T) {
	fields := []schema.FieldSpec{
		{Key: "number", Auto: schema.AutoSequenceNumber},
		{Key: "address", Auto: schema.AutoStatic, Static: "г. Тверь, ул. Советская 1"},
		{Key: "city", Auto: schema.AutoCityFromAddress, Source: "address"},
		{Key: "name"},
	}
	collected := map[string]string{}

	Apply(fields, Context{Now: march5, DocumentCount: 0}, collected)

	want := map[string]string{
		"number":  "01/03-2024",
		"address": "г. Тверь, ул. Советская 1",
		// Derivations read values resolved earlier in the same pass.
		"city": "Тверь",
	}
	if diff := cmp.Diff(want, collected); diff != "" {
		t.Fatalf("collected mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySkipsEmptyResolutions(t *testing.T) {
	fields := []schema.FieldSpec{
		{Key: "regime", Auto: schema.AutoStatic, Static: ""},
		{Key: "city", Auto: schema.AutoCityFromAddress, Source: "address"},
	}
	collected := map[string]string{}

	Apply(fields, Context{Now: march5}, collected)

	// Collected holds only non-empty values; unresolved keys stay absent.
	if len(collected) != 0 {
		t.Fatalf("collected = %v, want empty", collected)
	}
}

func TestApplyDoesNotOverwrite(t *testing.T) {
	fields := []schema.FieldSpec{
		{Key: "date", Auto: schema.AutoToday},
	}
	collected := map[string]string{"date": "01.01.2020"}

	Apply(fields, Context{Now: march5}, collected)

	if collected["date"] != "01.01.2020" {
		t.Fatalf("existing value overwritten: %q", collected["date"])
	}
}
