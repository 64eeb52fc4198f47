package main

import (
	"github.com/spf13/cobra"

	"github.com/eringen/wanderpress"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Upload the built site to an S3-compatible bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := wanderpress.DeployConfig{
			Bucket:    v.GetString("deploy.bucket"),
			Region:    v.GetString("deploy.region"),
			Prefix:    v.GetString("deploy.prefix"),
			Endpoint:  v.GetString("deploy.endpoint"),
			PathStyle: v.GetBool("deploy.path_style"),
		}
		client, err := wanderpress.NewS3Client(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		_, err = wanderpress.Deploy(cmd.Context(), client, cfg, v.GetString("output_dir"), logger)
		return err
	},
}

func init() {
	deployCmd.Flags().String("bucket", "", "destination bucket")
	_ = v.BindPFlag("deploy.bucket", deployCmd.Flags().Lookup("bucket"))
}
