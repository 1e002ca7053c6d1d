package cli

import (
	"context"
	"log/slog"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/bridge"
	"github.com/calvinalkan/uvd/internal/config"
)

// BridgeCmd returns the bridge command.
func BridgeCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("bridge", flag.ContinueOnError)
	fs.String("addr", "", "Listen address (default from bridge_addr)")

	return &Command{
		Flags: fs,
		Usage: "bridge [--addr host:port]",
		Short: "Serve the open_dashboard message bridge",
		Long: `Serve the open_dashboard message bridge over local HTTP until interrupted.

POST /message {"action":"open_dashboard"} opens the dashboard with
open_command and answers {"success":true,"tabId":null}. Logs go to stderr as
JSON; /metrics and /health/live are served alongside.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			addr := cfg.BridgeAddr
			if fs.Changed("addr") {
				addr, _ = fs.GetString("addr")
			}

			dashboard := cfg.DashboardURL
			if dashboard == "" {
				dashboard = cfg.Origin
			}

			logger := slog.New(slog.NewJSONHandler(o.ErrWriter(), &slog.HandlerOptions{Level: slog.LevelInfo}))

			srv := bridge.New(bridge.Config{Addr: addr, DashboardURL: dashboard},
				bridge.CommandOpener{Command: cfg.OpenCommand}, logger)

			return srv.Run(ctx)
		},
	}
}
