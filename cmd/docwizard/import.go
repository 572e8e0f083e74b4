package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docwizard/internal/schema"
	"github.com/goliatone/go-docwizard/internal/schema/openapiimport"
	pkgschema "github.com/goliatone/go-docwizard/pkg/schema"
)

var (
	importName     string
	importOpenAPI  string
	importSchema   string
	importFilename string
)

var importCmd = &cobra.Command{
	Use:   "import [template file]",
	Short: "Import a template by scanning placeholders or from an OpenAPI schema",
	Long: `With a template file argument, scans it for {{ placeholder }} variables
and registers a new template whose fields mirror the placeholders. Labels
and prompts are AI-generated when an API key is configured.

With --openapi, derives the fields from a component schema of an OpenAPI
document instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		var template pkgschema.Template
		switch {
		case importOpenAPI != "":
			template, err = openapiimport.Import(cmd.Context(), importOpenAPI, openapiimport.Options{
				SchemaName:  importSchema,
				DisplayName: importName,
				Filename:    importFilename,
			})
			if err != nil {
				return err
			}
		case len(args) == 1:
			var labeler schema.Labeler
			if env.client != nil {
				labeler = env.client
			}
			template, err = schema.ImportTemplate(cmd.Context(), args[0], importName, labeler)
			if err != nil {
				return err
			}
			if err := copyTemplateFile(args[0], filepath.Join(env.cfg.TemplatesDir, template.Filename)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("either a template file argument or --openapi is required")
		}

		if err := env.registry.Add(template); err != nil {
			return err
		}
		if err := env.registry.Save(env.cfg.RegistryPath); err != nil {
			return err
		}

		fmt.Printf("Шаблон добавлен: %s (%s, %d полей)\n",
			template.DisplayName, template.ID, len(template.Fields))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importName, "name", "", "display name for the new template")
	importCmd.Flags().StringVar(&importOpenAPI, "openapi", "", "OpenAPI document to import from")
	importCmd.Flags().StringVar(&importSchema, "schema", "", "component schema name inside the OpenAPI document")
	importCmd.Flags().StringVar(&importFilename, "filename", "", "render template filename for OpenAPI imports")
}

func copyTemplateFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
