package wizard

import (
	"testing"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

func fieldsFixture(keys ...string) []schema.FieldSpec {
	fields := make([]schema.FieldSpec, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, schema.FieldSpec{Key: key, Label: key})
	}
	return fields
}

func TestNextUnfilledIndex(t *testing.T) {
	fields := fieldsFixture("a", "b", "c", "d")

	tests := []struct {
		name      string
		collected map[string]string
		skipped   map[string]bool
		start     int
		want      int
	}{
		{"all empty", nil, nil, 0, 0},
		{"first filled", map[string]string{"a": "x"}, nil, 0, 1},
		{"skipped counts as handled", nil, map[string]bool{"a": true}, 0, 1},
		{"whitespace value is unfilled", map[string]string{"a": "  "}, nil, 0, 0},
		{"start past filled", map[string]string{"a": "x", "b": "y"}, nil, 1, 2},
		{"negative start clamps", map[string]string{}, nil, -5, 0},
		{"everything handled", map[string]string{"a": "1", "c": "3"}, map[string]bool{"b": true, "d": true}, 0, -1},
		{"start beyond end", nil, nil, 10, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := nextUnfilledIndex(fields, tc.collected, tc.skipped, tc.start)
			if got != tc.want {
				t.Fatalf("nextUnfilledIndex = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFillSkipExclusivity(t *testing.T) {
	session := &Session{
		Collected: map[string]string{},
		Skipped:   map[string]bool{},
	}

	session.markSkipped("a")
	if !session.Skipped["a"] {
		t.Fatalf("skip not recorded")
	}

	session.setValue("a", "value")
	if session.Skipped["a"] {
		t.Fatalf("skip marker survived setValue")
	}
	if session.Collected["a"] != "value" {
		t.Fatalf("value not stored")
	}

	session.markSkipped("a")
	if _, ok := session.Collected["a"]; ok {
		t.Fatalf("value survived markSkipped")
	}
	if !session.Skipped["a"] {
		t.Fatalf("skip not recorded after value")
	}
}

func TestCloneIsDeep(t *testing.T) {
	session := &Session{
		Fields:    fieldsFixture("a", "b"),
		Collected: map[string]string{"a": "1"},
		Skipped:   map[string]bool{"b": true},
	}

	clone := session.Clone()
	clone.Fields[0].Label = "changed"
	clone.Collected["a"] = "2"
	clone.Skipped["b"] = false

	if session.Fields[0].Label != "a" {
		t.Fatalf("clone shares fields slice")
	}
	if session.Collected["a"] != "1" {
		t.Fatalf("clone shares collected map")
	}
	if !session.Skipped["b"] {
		t.Fatalf("clone shares skipped map")
	}
}

func TestCloneNil(t *testing.T) {
	var session *Session
	if session.Clone() != nil {
		t.Fatalf("nil clone must stay nil")
	}
}
