package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dlcf-orozo/orozo-dp/internal/config"
	"github.com/dlcf-orozo/orozo-dp/internal/logging"
)

var (
	cfg      config.Config
	logLevel string
)

// AddFlags registers the persistent flags shared by every subcommand.
func AddFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOGLEVEL)")
}

// Init loads configuration and logging before any subcommand runs.
func Init(c *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	v, err := config.New(wd)
	if err != nil {
		return err
	}
	if logLevel != "" {
		v.Set("logLevel", logLevel)
	}
	cfg = config.Load(v)
	logging.Setup(c.ErrOrStderr(), cfg.LogLevel, "console")
	return nil
}
