package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(o, cfg)
		},
	}
}

func execPrintConfig(o *IO, cfg *config.Config) error {
	o.Println("effective_cwd=" + cfg.EffectiveCwd)
	o.Println("state_dir=" + cfg.StateDirAbs)
	o.Println("origin=" + cfg.Origin)
	o.Println(fmt.Sprintf("ultra_mode=%t", cfg.UltraMode))
	o.Println("bridge_addr=" + cfg.BridgeAddr)

	if cfg.DashboardURL != "" {
		o.Println("dashboard_url=" + cfg.DashboardURL)
	}

	o.Println("open_command=" + cfg.OpenCommand)
	o.Println(fmt.Sprintf("workspace_cache_size=%d", cfg.WorkspaceCacheSize))
	o.Println("workspace_cache_ttl=" + cfg.CacheTTL.String())

	if len(cfg.Workspaces) > 0 {
		o.Println("")
		o.Println("# workspaces")

		ids := make([]string, 0, len(cfg.Workspaces))
		for id := range cfg.Workspaces {
			ids = append(ids, id)
		}

		slices.Sort(ids)

		for _, id := range ids {
			o.Println(id + "=" + strings.TrimSpace(cfg.Workspaces[id]))
		}
	}

	o.Println("")
	o.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			o.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			o.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}
