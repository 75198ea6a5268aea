package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-wayfinder/pkg/agent"
	"github.com/teslashibe/go-wayfinder/pkg/chain"
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer one query and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAsk,
}

func init() {
	f := askCmd.Flags()
	f.StringSlice("image", nil, "JPEG frame to include (repeatable, oldest first)")
	f.Bool("json", false, "print the full result as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Port = 0
	cfg.CameraStreamURL = ""

	ctx, stop := signalContext()
	defer stop()

	app, err := agent.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	images, _ := cmd.Flags().GetStringSlice("image")
	for _, path := range images {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		app.Frames().Add(data)
	}

	query := cfg.DefaultQuery
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		query = args[0]
	}

	res, err := app.Ask(ctx, query)
	if err != nil {
		return err
	}
	app.WaitNarration()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(cmd, res)
	if res.Outcome.Failed() {
		return res.Err
	}
	return nil
}

func printResult(cmd *cobra.Command, res *chain.Result) {
	out := cmd.OutOrStdout()
	for _, h := range res.History {
		fmt.Fprintf(out, "%2d. %s\n    %s\n", h.Step, h.Descriptor, h.Output)
	}
	fmt.Fprintf(out, "\n%s (%s, %d steps)\n", res.FinalResult, res.Outcome, res.Steps)
}
