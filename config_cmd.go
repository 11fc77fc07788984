package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# GhostSay configuration. Changes to server.host and server.port are
# applied to a running server without restarting the process.
server:
  # IP address to bind to. 127.0.0.1 only accepts local requests; run
  # "ghostsay interfaces" to list the addresses of this machine.
  host: "127.0.0.1"
  # Port to listen on (1024-65535).
  port: 57630

speech:
  # Speech executable, called with the text as its only argument.
  # Empty selects /usr/bin/say on macOS and espeak-ng/espeak elsewhere.
  binary: ""

# Enable debug logging.
debug: false

log:
  # auto, text, logfmt or json
  format: "auto"
  # Also write logs to this file (rotated).
  file: ""
`

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Edit the ghostsay config file",
	Long:    paragraph(fmt.Sprintf("\n%s the ghostsay config file with $EDITOR. The file is created with defaults if it doesn't exist. A running server picks up host and port changes when the file is saved.", keyword("Edit"))),
	Example: paragraph("ghostsay config\nghostsay config --config path/to/ghostsay.yml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("GhostSay", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", configFile)
		return nil
	},
}

// ensureConfigFile resolves configFile and writes the default config there
// when nothing exists yet.
func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
	}
	if configFile == "" {
		return errors.New("no configuration file location: use --config")
	}
	return writeDefaultConfig(configFile)
}

func writeDefaultConfig(file string) error {
	if ext := path.Ext(file); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	_, err := os.Stat(file)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return fmt.Errorf("unable create directory: %w", err)
	}
	if err := os.WriteFile(file, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}
