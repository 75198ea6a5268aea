// Command wayfinder answers spoken or typed navigation questions using a
// camera feed, a vision model and Google Maps.
//
// Usage:
//
//	wayfinder serve --config wayfinder.yaml
//	wayfinder ask "Where is the nearest pharmacy?" --image frame.jpg
//	wayfinder transcribe question.wav
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-wayfinder/internal/config"
	"github.com/teslashibe/go-wayfinder/internal/log"
	"github.com/teslashibe/go-wayfinder/pkg/agent"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:           "wayfinder",
	Short:         "Camera-aware navigation assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.Int("max-steps", 0, "step budget per query (0 keeps the configured value)")
	pf.String("travel-mode", "", "walking, driving, bicycling or transit")
	pf.Bool("speak", true, "speak final answers")

	// Unchanged flags leave file and environment values in effect.
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("travel_mode", pf.Lookup("travel-mode"))
	_ = v.BindPFlag("speak_results", pf.Lookup("speak"))

	rootCmd.AddCommand(serveCmd, askCmd, transcribeCmd)
}

func loadConfig(cmd *cobra.Command) (agent.Config, *slog.Logger, error) {
	cfg, err := config.LoadWith(v, cfgFile)
	if err != nil {
		return agent.Config{}, nil, err
	}
	if n, _ := cmd.Flags().GetInt("max-steps"); n > 0 {
		cfg.MaxSteps = n
	}
	logger := log.Init(cfg.LogLevel)
	return cfg, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
