// Package main provides the entry point for the GhostSay CLI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ghostsay/internal/logging"
	"github.com/dgnsrekt/ghostsay/internal/server"
	"github.com/dgnsrekt/ghostsay/internal/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	host       string
	port       int
	binary     string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "ghostsay",
		Short: "Speak text sent over HTTP",
		Long: paragraph(
			fmt.Sprintf("\nTurn %s into speech on this machine.", keyword("GET /say?text=...")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: runServe,
	}
)

func validateOptions(cmd *cobra.Command) error {
	// An explicit --config replaces whatever was found in the default places.
	if configFile != "" && configFile != viper.ConfigFileUsed() {
		if err := ensureConfigFile(); err != nil {
			return err
		}
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	logging.SetDebug(viper.GetBool("debug"))

	flags := cmd.Flags()
	if flags.Changed("port") {
		if err := server.ValidatePort(viper.GetInt(settings.KeyPort)); err != nil {
			return err
		}
	}
	if flags.Changed("host") {
		if err := server.ValidateHost(viper.GetString(settings.KeyHost)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	defaults := server.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	pf.StringVar(&host, "host", defaults.Host, "IP address to bind to")
	pf.IntVarP(&port, "port", "p", defaults.Port, fmt.Sprintf("port to listen on (%d-%d)", server.MinPort, server.MaxPort))
	pf.StringVar(&binary, "binary", "", "speech executable (default: platform speech command)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")

	// Config bindings
	_ = viper.BindPFlag(settings.KeyHost, pf.Lookup("host"))
	_ = viper.BindPFlag(settings.KeyPort, pf.Lookup("port"))
	_ = viper.BindPFlag(settings.KeyBinary, pf.Lookup("binary"))
	_ = viper.BindPFlag("debug", pf.Lookup("debug"))

	settings.SetDefaults(viper.GetViper())
	viper.SetDefault("debug", false)
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.format", logging.FormatAuto)

	rootCmd.AddCommand(serveCmd, interfacesCmd, endpointCmd, sayCmd, setCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	dirs, err := settings.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName(settings.AppName)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(settings.AppName)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	configFile = filepath.Join(dirs[0], settings.AppName+".yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
		return
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Warn("Could not read default configuration", "err", err)
	}
}
