package openapiimport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pkgschema "github.com/goliatone/go-docwizard/pkg/schema"
)

const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Contracts", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "Contract": {
        "type": "object",
        "required": ["client_name"],
        "properties": {
          "client_name": {
            "type": "string",
            "title": "Название клиента",
            "description": "Как называется организация клиента?"
          },
          "client_inn": {
            "type": "string",
            "pattern": "\\d{10}|\\d{12}"
          },
          "signed_at": {
            "type": "string",
            "format": "date"
          },
          "amount": {
            "type": "number"
          }
        }
      },
      "Empty": {
        "type": "object",
        "properties": {
          "count": { "type": "integer" }
        }
      }
    }
  }
}`

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.json")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestImportDerivesFields(t *testing.T) {
	template, err := Import(context.Background(), writeDocument(t), Options{
		SchemaName: "Contract",
		Filename:   "contract.txt",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if template.ID != "contract" || template.DisplayName != "Contract" {
		t.Fatalf("template = %+v", template)
	}

	byKey := map[string]pkgschema.FieldSpec{}
	for _, field := range template.Fields {
		byKey[field.Key] = field
	}
	// Non-string properties are dropped.
	if _, ok := byKey["amount"]; ok {
		t.Fatalf("number property imported")
	}
	if len(template.Fields) != 3 {
		t.Fatalf("fields = %d", len(template.Fields))
	}

	name := byKey["client_name"]
	if !name.Required || name.Label != "Название клиента" {
		t.Fatalf("client_name = %+v", name)
	}
	if name.Prompt != "Как называется организация клиента?" {
		t.Fatalf("prompt = %q", name.Prompt)
	}

	inn := byKey["client_inn"]
	if inn.Required || inn.Pattern != `\d{10}|\d{12}` {
		t.Fatalf("client_inn = %+v", inn)
	}
	if inn.Prompt != "Введите client_inn:" {
		t.Fatalf("default prompt = %q", inn.Prompt)
	}

	if byKey["signed_at"].Type != pkgschema.FieldTypeDate {
		t.Fatalf("signed_at type = %q", byKey["signed_at"].Type)
	}
}

func TestImportRejectsMissingSchema(t *testing.T) {
	path := writeDocument(t)
	if _, err := Import(context.Background(), path, Options{SchemaName: "Nope"}); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
	if _, err := Import(context.Background(), path, Options{}); err == nil {
		t.Fatalf("expected error without schema name")
	}
}

func TestImportRejectsSchemaWithoutStringProperties(t *testing.T) {
	if _, err := Import(context.Background(), writeDocument(t), Options{SchemaName: "Empty"}); err == nil {
		t.Fatalf("expected error for schema without string properties")
	}
}
