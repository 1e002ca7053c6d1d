package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// StatsCmd returns the stats command.
func StatsCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.Bool("json", false, "Print the counts as JSON")

	return &Command{
		Flags: fs,
		Usage: "stats [--json]",
		Short: "Show draft counts",
		Long: `Show counts over the cached drafts.

new counts unread drafts that are not violations and were not marked seen.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			snap, err := openStore(cfg).Load()
			if err != nil {
				return err
			}

			stats := drafts.ComputeStats(snap.Drafts, snap.Bookmarks, snap.Seen)

			if asJSON, _ := fs.GetBool("json"); asJSON {
				return o.PrintJSON(stats)
			}

			o.Printf("total=%d\nbookmarked=%d\nhidden=%d\nnew=%d\n",
				stats.Total, stats.Bookmarked, stats.Hidden, stats.NewCount)

			return nil
		},
	}
}
