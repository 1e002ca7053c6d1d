package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// RmCmd returns the rm command.
func RmCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <id>",
		Short: "Remove a draft from the cache",
		Long:  "Remove every cached draft with the given id, e.g. after it was deleted upstream.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execRm(o, cfg, args)
		},
	}
}

func execRm(o *IO, cfg *config.Config, args []string) error {
	err := exactArgs(args, 1, "draft id")
	if err != nil {
		return err
	}

	id := args[0]

	err = openStore(cfg).Update(func(s *state.Snapshot) error {
		next := drafts.RemoveByID(s.Drafts, id)
		if len(next) == len(s.Drafts) {
			return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
		}

		s.Drafts = next

		return nil
	})
	if err != nil {
		return err
	}

	o.Println("removed", id)

	return nil
}
