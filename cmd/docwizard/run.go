package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-docwizard/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive wizard session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildEnv()
		if err != nil {
			return err
		}

		engine, err := env.newEngine()
		if err != nil {
			return err
		}

		app := tui.NewApp(engine, tui.NewSurveyDriver(), userID, tui.WithAppLogger(env.log))
		return app.Run(cmd.Context())
	},
}
