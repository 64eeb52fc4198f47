package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/wanderpress"
	"github.com/eringen/wanderpress/content"
)

var (
	cfgFile string
	debug   bool
	v       = viper.New()
	logger  = log.New("wanderpress")
)

var rootCmd = &cobra.Command{
	Use:           "wanderpress",
	Short:         "wanderpress - a travel blog frontend for Sanity",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			logger.SetLevel(log.DEBUG)
		} else {
			logger.SetLevel(log.INFO)
		}
		return initializeConfig(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wanderpress version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wanderpress %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./wanderpress.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging and stack traces on error")
	rootCmd.PersistentFlags().String("project", "", "Sanity project ID")
	rootCmd.PersistentFlags().String("dataset", "", "Sanity dataset")
	rootCmd.PersistentFlags().String("output", "", "static output directory")
	_ = v.BindPFlag("sanity.project_id", rootCmd.PersistentFlags().Lookup("project"))
	_ = v.BindPFlag("sanity.dataset", rootCmd.PersistentFlags().Lookup("dataset"))
	_ = v.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(initCmd, buildCmd, serveCmd, deployCmd, versionCmd)
}

func initializeConfig(_ *cobra.Command) error {
	v.SetDefault("site.name", "Blog")
	v.SetDefault("sanity.dataset", "production")
	v.SetDefault("sanity.api_version", "2023-03-01")
	v.SetDefault("sanity.use_cdn", true)
	v.SetDefault("addr", ":3000")
	v.SetDefault("output_dir", "dist")
	v.SetDefault("static_dir", "static")
	v.SetDefault("fetch_timeout", 30*time.Second)
	v.SetDefault("rate_limit", 120)
	v.SetDefault("rate_window", time.Minute)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("wanderpress")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("WANDERPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("google_maps_api_key", "WANDERPRESS_GOOGLE_MAPS_API_KEY", "GOOGLE_MAPS_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
		logger.Debug("no config file found, using flags and environment")
	} else {
		logger.Infof("using config file %s", v.ConfigFileUsed())
	}
	return nil
}

func siteConfig() wanderpress.SiteConfig {
	return wanderpress.SiteConfig{
		Name:        v.GetString("site.name"),
		URL:         v.GetString("site.url"),
		Description: v.GetString("site.description"),
		Author:      v.GetString("site.author"),
		Sanity: content.Config{
			ProjectID:  v.GetString("sanity.project_id"),
			Dataset:    v.GetString("sanity.dataset"),
			APIVersion: v.GetString("sanity.api_version"),
			UseCDN:     v.GetBool("sanity.use_cdn"),
			Token:      v.GetString("sanity.token"),
		},
		GoogleMapsAPIKey: v.GetString("google_maps_api_key"),
		Addr:             v.GetString("addr"),
		OutputDir:        v.GetString("output_dir"),
		StaticDir:        v.GetString("static_dir"),
		ConfigFile:       v.ConfigFileUsed(),
		SessionSecret:    v.GetString("session_secret"),
		CookieSecure:     v.GetBool("cookie_secure"),
		FetchTimeout:     v.GetDuration("fetch_timeout"),
		RateLimit:        v.GetInt("rate_limit"),
		RateWindow:       v.GetDuration("rate_window"),
	}
}

func newApp() (*wanderpress.App, error) {
	cfg := siteConfig()
	if cfg.GoogleMapsAPIKey == "" {
		logger.Warn("google_maps_api_key is not set; location map previews will not load")
	}
	return wanderpress.New(cfg, wanderpress.WithLogger(logger))
}

// reloadApp re-reads the config file and builds a new App from it.
func reloadApp() (*wanderpress.App, error) {
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return newApp()
}
