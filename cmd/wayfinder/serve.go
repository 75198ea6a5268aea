package main

import (
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-wayfinder/pkg/agent"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the camera loop, web API and agent until interrupted",
	Long: `Serve captures frames from the configured camera stream, exposes the
HTTP and WebSocket API, and answers a query each time it is triggered
(POST /api/trigger) or every --interval.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.Int("port", agent.DefaultPort, "HTTP listen port (0 disables the web API)")
	f.String("camera", "", "camera stream URL or device index")
	f.Duration("interval", 0, "run the default query on this period (0 waits for triggers)")
	f.String("clip", "", "audio clip transcribed into the query on each run")

	_ = v.BindPFlag("port", f.Lookup("port"))
	_ = v.BindPFlag("camera_stream_url", f.Lookup("camera"))
	_ = v.BindPFlag("interval", f.Lookup("interval"))
	_ = v.BindPFlag("query_clip", f.Lookup("clip"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	app, err := agent.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	if cfg.Interval == 0 && cfg.Port == 0 {
		// Nothing else can trigger a run.
		app.Trigger()
	}

	err = app.Run(ctx)
	logger.Info("shutting down")
	return err
}
