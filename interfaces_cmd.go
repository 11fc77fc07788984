package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ghostsay/internal/netif"
	"github.com/dgnsrekt/ghostsay/internal/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var interfacesCmd = &cobra.Command{
	Use:     "interfaces",
	Aliases: []string{"ips"},
	Short:   "List the IPv4 addresses the server can bind to",
	Long:    paragraph(fmt.Sprintf("\nList the IPv4 addresses of this machine. The configured bind address is marked with %s.", keyword("*"))),
	Example: paragraph("ghostsay interfaces\nghostsay ips"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := netif.List()
		if err != nil {
			log.Warn("Could not enumerate network interfaces", "error", err)
		}
		selected := settings.New(viper.GetViper(), configFile).SelectedIP()
		renderInterfaces(cmd.OutOrStdout(), list, selected)
		return nil
	},
}

func renderInterfaces(w io.Writer, list []netif.Descriptor, selected string) {
	found := false
	for _, d := range list {
		marker := "  "
		if d.IP == selected {
			marker = keyword("*") + " "
			found = true
		}
		label := d.Description()
		if d.IsPublic {
			label = warning(label)
		}
		fmt.Fprintf(w, "%s%-15s  %s\n", marker, d.IP, label)
	}
	if !found {
		fmt.Fprintln(w, faint(fmt.Sprintf("Configured address %s is not assigned to any interface.", selected)))
	}
}
