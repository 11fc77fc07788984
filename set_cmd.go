package main

import (
	"fmt"
	"io"

	"github.com/dgnsrekt/ghostsay/internal/netif"
	"github.com/dgnsrekt/ghostsay/internal/server"
	"github.com/dgnsrekt/ghostsay/internal/settings"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <host|port> <value>",
	Short: "Change the bind address in the config file",
	Long: paragraph(fmt.Sprintf("\n%s the bind host or port and save it to the config file. A running server moves to the new address.",
		keyword("Set"))),
	Example:   paragraph("ghostsay set port 8080\nghostsay set host 192.168.1.20"),
	ValidArgs: []string{"host", "port"},
	Args:      cobra.MatchAll(cobra.ExactArgs(2), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}
		store, err := settings.Open(configFile)
		if err != nil {
			return err
		}
		return applySetting(cmd.OutOrStdout(), store, args[0], args[1])
	},
}

func applySetting(w io.Writer, store *settings.Store, key, value string) error {
	switch key {
	case "port":
		port, err := server.ParsePort(value)
		if err != nil {
			return err
		}
		if err := store.SetPort(port); err != nil {
			return err
		}
	case "host":
		if err := store.SetSelectedIP(value); err != nil {
			return err
		}
		if !warnIfPublic(w, value) {
			if _, ok := netif.Lookup(value); !ok {
				fmt.Fprintln(w, warning(fmt.Sprintf("%s is not assigned to any interface on this machine", value)))
			}
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved %s to %s\n", keyword(store.ServerConfig().Addr()), store.Path())
	return nil
}
