package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/dgnsrekt/ghostsay/internal/logging"
	"github.com/spf13/viper"
)

// setupLog reads the logging options from the environment, falling back to
// the config file, and installs the default logger.
func setupLog() (func() error, error) {
	opts, err := env.ParseAs[logging.Options]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log options: %w", err)
	}

	if opts.File == "" {
		opts.File = viper.GetString("log.file")
	}
	if opts.Format == logging.FormatAuto && viper.IsSet("log.format") {
		opts.Format = viper.GetString("log.format")
	}
	opts.Debug = opts.Debug || viper.GetBool("debug")

	return logging.Setup(opts)
}
