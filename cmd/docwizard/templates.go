package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available document templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		refs := env.registry.ListTemplates()
		if len(refs) == 0 {
			fmt.Println("Нет доступных шаблонов.")
			return nil
		}
		for _, ref := range refs {
			template, _ := env.registry.GetTemplate(ref.ID)
			fmt.Printf("%-24s %s (%d полей)\n", ref.ID, ref.DisplayName, len(template.Fields))
		}
		return nil
	},
}
