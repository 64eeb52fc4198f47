package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watch bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every post and the listing page to the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if watch {
			return app.Watch(ctx, reloadApp)
		}
		_, err = app.Build(ctx)
		return err
	},
}

func init() {
	buildCmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when the static dir or config file changes")
}
