package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/wanderpress/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new site directory with a starter config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := cmd.Flags().GetString("project")
		dataset, _ := cmd.Flags().GetString("dataset")
		created, err := scaffold.Write(args[0], scaffold.Data{ProjectID: project, Dataset: dataset})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range created {
			fmt.Fprintf(out, "  created %s\n", p)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Done! Next steps:")
		fmt.Fprintf(out, "  cd %s\n", args[0])
		fmt.Fprintln(out, "  wanderpress serve")
		return nil
	},
}
