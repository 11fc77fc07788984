package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ghostsay/internal/settings"
	"github.com/dgnsrekt/ghostsay/internal/speech"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errSpeechFailed = errors.New("failed to execute speech command")

var sayCmd = &cobra.Command{
	Use:   "say [text]",
	Short: "Speak text locally without the server",
	Long: paragraph(fmt.Sprintf("\nSpeak %s with the configured speech command. Without arguments the test phrase %q is spoken.",
		keyword("text"), speech.TestPhrase)),
	Example: paragraph("ghostsay say\nghostsay say hello there"),
	RunE: func(cmd *cobra.Command, args []string) error {
		speaker := speech.NewCommandSpeaker(settings.New(viper.GetViper(), configFile).SpeechBinary(), log.Default())
		return sayText(cmd.Context(), speaker, args)
	},
}

func sayText(ctx context.Context, speaker speech.Speaker, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		text = speech.TestPhrase
	}
	if res := speaker.Speak(ctx, speech.Sanitize(text)); !res.Succeeded {
		return errSpeechFailed
	}
	return nil
}
