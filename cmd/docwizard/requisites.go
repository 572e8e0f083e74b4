package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docwizard/pkg/requisites"
)

var requisitesCmd = &cobra.Command{
	Use:   "requisites",
	Short: "Manage saved company requisites",
}

var requisitesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved requisites record",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		record, err := env.docs.Get(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if len(record) == 0 {
			fmt.Println("Реквизиты не сохранены.")
			return nil
		}
		fmt.Println(requisites.Summary(record))
		return nil
	},
}

var requisitesUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Extract requisites from a document and save them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		if env.client == nil {
			return fmt.Errorf("requisite extraction needs an OpenAI API key")
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		text := strings.TrimSpace(string(data))
		if len([]rune(text)) < 20 {
			return fmt.Errorf("document text is too short to contain requisites")
		}

		record, err := env.client.Extract(cmd.Context(), text)
		if err != nil {
			return err
		}
		if len(record) == 0 {
			return fmt.Errorf("no requisites found in the document")
		}

		if err := env.docs.SaveRequisites(cmd.Context(), userID, record); err != nil {
			return err
		}
		fmt.Printf("Сохранено полей: %d\n", len(record))
		fmt.Println(requisites.Summary(record))
		return nil
	},
}

var requisitesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the saved requisites record",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		removed, err := env.docs.DeleteRequisites(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println("Реквизиты не были сохранены.")
			return nil
		}
		fmt.Println("Реквизиты удалены.")
		return nil
	},
}

func init() {
	requisitesCmd.AddCommand(requisitesShowCmd)
	requisitesCmd.AddCommand(requisitesUploadCmd)
	requisitesCmd.AddCommand(requisitesDeleteCmd)
}
