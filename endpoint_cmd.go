package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/dgnsrekt/ghostsay/internal/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var copyEndpoint bool

var endpointCmd = &cobra.Command{
	Use:     "endpoint",
	Short:   "Print the example URL for the configured address",
	Example: paragraph("ghostsay endpoint\nghostsay endpoint --copy"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := settings.New(viper.GetViper(), configFile).ServerConfig()
		url := cfg.Endpoint()
		fmt.Fprintln(cmd.OutOrStdout(), url)
		warnIfPublic(cmd.ErrOrStderr(), cfg.Host)

		if !copyEndpoint {
			return nil
		}
		if err := clipboard.WriteAll(url); err != nil {
			return fmt.Errorf("unable to copy endpoint: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), faint("Copied to clipboard"))
		return nil
	},
}

func init() {
	endpointCmd.Flags().BoolVarP(&copyEndpoint, "copy", "c", false, "copy the URL to the clipboard")
}
