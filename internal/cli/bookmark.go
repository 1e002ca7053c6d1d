package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
)

// BookmarkCmd returns the bookmark command.
func BookmarkCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("bookmark", flag.ContinueOnError),
		Usage: "bookmark add|rm|ls [id...]",
		Short: "Manage bookmarked drafts",
		Long: `Add or remove bookmarks, or list bookmarked ids in the order they were added.

Bookmarks are kept by id and survive the draft leaving the cache.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execBookmark(o, cfg, args)
		},
	}
}

func execBookmark(o *IO, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: add, rm or ls", ErrArgRequired)
	}

	action, ids := args[0], args[1:]
	store := openStore(cfg)

	switch action {
	case "ls":
		if len(ids) > 0 {
			return fmt.Errorf("%w: %v", ErrTooManyArgs, ids)
		}

		snap, err := store.Load()
		if err != nil {
			return err
		}

		for _, id := range snap.Bookmarks.IDs() {
			o.Println(id)
		}

		return nil

	case "add", "rm":
		if len(ids) == 0 {
			return fmt.Errorf("%w: draft id", ErrArgRequired)
		}

		changed := 0

		err := store.Update(func(s *state.Snapshot) error {
			for _, id := range ids {
				if action == "add" && s.Bookmarks.Add(id) {
					changed++
				}

				if action == "rm" && s.Bookmarks.Remove(id) {
					changed++
				}
			}

			return nil
		})
		if err != nil {
			return err
		}

		verb := "bookmarked"
		if action == "rm" {
			verb = "unbookmarked"
		}

		o.Printf("%s %d drafts\n", verb, changed)

		return nil

	default:
		return fmt.Errorf("%w: bookmark %s", ErrUnknownCommand, action)
	}
}
