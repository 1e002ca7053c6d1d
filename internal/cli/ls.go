package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// LsCmd returns the ls command.
func LsCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.String("filter", "", "Filter state: "+strings.Join(drafts.FilterStates, ", "))
	fs.String("sort", "", "Sort state: "+strings.Join(drafts.SortStates, ", "))
	fs.String("workspace", "", "Only drafts of this workspace id (\"-\" clears the saved one)")
	fs.Bool("json", false, "Print the drafts as JSON")
	fs.Bool("save", false, "Save filter, sort, workspace and query as the default view")
	fs.Int("preview", 60, "Preview length in characters")

	return &Command{
		Flags: fs,
		Usage: "ls [flags] [query...]",
		Short: "List cached drafts",
		Long: `List cached drafts through the saved view, overridden by flags.

The query supports free-text terms, "quoted phrases" and key:value filters:
  ` + strings.Join(drafts.FilterKeys, " ") + `
e.g. ws:"Music Lab" model:sora2 dur:>=10 bookmarked:true neon

Each line shows id, markers and a preview. Markers: b bookmarked, h hidden,
n new, p pending, v violation or error.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execLs(o, cfg, fs, args)
		},
	}
}

func execLs(o *IO, cfg *config.Config, fs *flag.FlagSet, args []string) error {
	store := openStore(cfg)

	snap, err := store.Load()
	if err != nil {
		return err
	}

	view, err := viewFromFlags(snap.View, fs)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		view.SearchQuery = strings.Join(args, " ")
	}

	if save, _ := fs.GetBool("save"); save {
		err = store.Update(func(s *state.Snapshot) error {
			s.View = view

			return nil
		})
		if err != nil {
			return err
		}
	}

	resolver := newResolver(cfg)
	shown := drafts.ApplyView(snap.Drafts, view, drafts.ViewOptions{
		Bookmarks:            snap.Bookmarks,
		JustSeen:             snap.Seen,
		ResolveWorkspaceName: resolver.Resolve,
	})

	if asJSON, _ := fs.GetBool("json"); asJSON {
		return o.PrintJSON(shown)
	}

	previewLen, _ := fs.GetInt("preview")
	printDrafts(o, shown, snap, previewLen)

	return nil
}

func printDrafts(o *IO, list []drafts.Draft, snap state.Snapshot, previewLen int) {
	for _, d := range list {
		o.Printf("%s\t%s\t%s\n", d.ID(), markers(d, snap), drafts.PreviewText(d, previewLen))
	}
}

// viewFromFlags applies the view flags that were set on top of base.
func viewFromFlags(base drafts.ViewState, fs *flag.FlagSet) (drafts.ViewState, error) {
	view := base

	if fs.Changed("filter") {
		filter, _ := fs.GetString("filter")
		if !slices.Contains(drafts.FilterStates, filter) {
			return drafts.ViewState{}, fmt.Errorf("%w: %q (want one of %s)",
				ErrInvalidFilter, filter, strings.Join(drafts.FilterStates, ", "))
		}

		view.FilterState = filter
	}

	if fs.Changed("sort") {
		sort, _ := fs.GetString("sort")

		// api and duration are accepted as old spellings of newest.
		key := strings.ToLower(strings.TrimSpace(sort))
		if !slices.Contains(drafts.SortStates, key) && key != "api" && key != "duration" {
			return drafts.ViewState{}, fmt.Errorf("%w: %q (want one of %s)",
				ErrInvalidSort, sort, strings.Join(drafts.SortStates, ", "))
		}

		view.SortState = drafts.NormalizeViewState(map[string]any{"sortState": key}).SortState
	}

	if fs.Changed("workspace") {
		ws, _ := fs.GetString("workspace")
		ws = strings.TrimSpace(ws)

		if ws == "" || ws == "-" {
			view.WorkspaceFilter = nil
		} else {
			view.WorkspaceFilter = &ws
		}
	}

	return view, nil
}

func markers(d drafts.Draft, snap state.Snapshot) string {
	var b strings.Builder

	id := d.ID()

	if snap.Bookmarks.Has(id) {
		b.WriteByte('b')
	}

	if drafts.IsHidden(d) {
		b.WriteByte('h')
	}

	if drafts.IsUnread(d) && !snap.Seen.Has(id) {
		b.WriteByte('n')
	}

	if drafts.IsPending(d) {
		b.WriteByte('p')
	}

	if drafts.IsAlwaysOld(d) {
		b.WriteByte('v')
	}

	if b.Len() == 0 {
		return "-"
	}

	return b.String()
}
