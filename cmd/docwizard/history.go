package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show generated document history for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		documents, err := env.docs.List(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(documents) == 0 {
			fmt.Println("История пуста.")
			return nil
		}
		for i, doc := range documents {
			fmt.Printf("%2d. %s — %s (%s)\n",
				i+1, doc.CreatedAt.Format("02.01.2006 15:04"), doc.TemplateName, doc.TemplateID)
		}
		return nil
	},
}
