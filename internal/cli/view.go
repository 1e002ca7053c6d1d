package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// ViewCmd returns the view command.
func ViewCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.String("filter", "", "Filter state")
	fs.String("sort", "", "Sort state")
	fs.String("workspace", "", "Workspace id (\"-\" clears it)")
	fs.String("query", "", "Search query")
	fs.Bool("reset", false, "Reset the view to its defaults first")

	return &Command{
		Flags: fs,
		Usage: "view [flags]",
		Short: "Show or change the saved list view",
		Long: `Show the saved list view used by ls and the REPL, after applying any
flags. Changes are saved. Invalid stored values read as their defaults.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execView(o, cfg, fs)
		},
	}
}

func execView(o *IO, cfg *config.Config, fs *flag.FlagSet) error {
	var view drafts.ViewState

	err := openStore(cfg).Update(func(s *state.Snapshot) error {
		base := s.View

		if reset, _ := fs.GetBool("reset"); reset {
			base = drafts.DefaultViewState()
		}

		next, err := viewFromFlags(base, fs)
		if err != nil {
			return err
		}

		if fs.Changed("query") {
			next.SearchQuery, _ = fs.GetString("query")
		}

		s.View = next
		view = next

		return nil
	})
	if err != nil {
		return err
	}

	o.Printf("filter=%s\nsort=%s\nworkspace=%s\nquery=%s\n",
		view.FilterState, view.SortState, view.Workspace(), view.SearchQuery)

	return nil
}
