package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// SeenCmd returns the seen command.
func SeenCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("seen", flag.ContinueOnError)
	fs.Bool("clear", false, "Forget all just-seen ids")

	return &Command{
		Flags: fs,
		Usage: "seen [--clear] [id...]",
		Short: "Mark drafts as just seen",
		Long: `Mark drafts as seen so they stop counting as new before the server
marks them read. Without ids the just-seen ids are listed.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			clearSeen, _ := fs.GetBool("clear")

			return execSeen(o, cfg, clearSeen, args)
		},
	}
}

func execSeen(o *IO, cfg *config.Config, clearSeen bool, args []string) error {
	store := openStore(cfg)

	if clearSeen {
		if len(args) > 0 {
			return fmt.Errorf("%w: --clear takes no ids", ErrTooManyArgs)
		}

		var cleared int

		err := store.Update(func(s *state.Snapshot) error {
			cleared = s.Seen.Len()
			s.Seen = drafts.NewIDSet()

			return nil
		})
		if err != nil {
			return err
		}

		o.Printf("cleared %d seen ids\n", cleared)

		return nil
	}

	if len(args) == 0 {
		snap, err := store.Load()
		if err != nil {
			return err
		}

		for _, id := range snap.Seen.IDs() {
			o.Println(id)
		}

		return nil
	}

	added := 0

	err := store.Update(func(s *state.Snapshot) error {
		for _, id := range args {
			if s.Seen.Add(id) {
				added++
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	o.Printf("marked %d drafts seen\n", added)

	return nil
}
