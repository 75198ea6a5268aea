package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-wayfinder/pkg/stt"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <clip>",
	Short: "Print the transcript of an audio clip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.ElevenLabsAPIKey == "" {
			return errors.New("ELEVENLABS_API_KEY is required")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		tr, err := stt.NewElevenLabs(stt.WithAPIKey(cfg.ElevenLabsAPIKey), stt.WithLogger(logger))
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		text, err := tr.Transcribe(ctx, filepath.Base(args[0]), f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
