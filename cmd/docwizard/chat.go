package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docwizard/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Free-form assistant chat",
	Long: `Talks to the assistant outside the wizard flow. The conversation keeps
a short per-user history so follow-up questions stay in context. Enter an
empty message to exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}
		if env.client == nil {
			return fmt.Errorf("chat needs an OpenAI API key")
		}

		driver := tui.NewSurveyDriver()
		ctx := cmd.Context()
		for {
			message, err := driver.Input(ctx, tui.InputConfig{Message: "Вы:"})
			if err != nil {
				return nil
			}
			if strings.TrimSpace(message) == "" {
				env.client.ClearHistory(userID)
				return nil
			}

			reply, err := env.client.Chat(ctx, userID, message)
			if err != nil {
				return err
			}
			if err := driver.Info(ctx, reply); err != nil {
				return err
			}
		}
	},
}
