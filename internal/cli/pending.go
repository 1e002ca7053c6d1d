package cli

import (
	"context"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// PendingCmd returns the pending command.
func PendingCmd(cfg *config.Config, in io.Reader) *Command {
	fs := flag.NewFlagSet("pending", flag.ContinueOnError)
	fs.Bool("merge", false, "Merge pending generations into the draft cache")

	return &Command{
		Flags: fs,
		Usage: "pending [--merge] <file|->",
		Short: "Flatten a pending-feed response",
		Long: `Flatten a pending-feed response into draft-shaped records.

The feed may list tasks with nested generations or bare generation records.
Each still-pending generation is printed as id, status and preview. Ids that
were pending at the previous poll but are gone now are printed as dropped.

With --merge the pending records are merged in front of the cached drafts and
dropped records that are still marked pending are removed from the cache.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			merge, _ := fs.GetBool("merge")

			return execPending(o, cfg, in, merge, args)
		},
	}
}

func execPending(o *IO, cfg *config.Config, in io.Reader, merge bool, args []string) error {
	err := exactArgs(args, 1, "file or - for stdin")
	if err != nil {
		return err
	}

	payload, err := readPayload(cfg, in, args[0])
	if err != nil {
		return err
	}

	records := drafts.FlattenPending(payload)
	current := drafts.IDSetOf(records)

	var dropped []string

	err = openStore(cfg).Update(func(s *state.Snapshot) error {
		dropped = drafts.DroppedIDs(s.Pending, current)
		s.Pending = current

		if !merge {
			return nil
		}

		cached := s.Drafts

		for _, id := range dropped {
			if d, ok := findDraft(cached, id); ok && drafts.IsPending(d) {
				cached = drafts.RemoveByID(cached, id)
			}
		}

		s.Drafts = drafts.MergeByID(records, cached)

		return nil
	})
	if err != nil {
		return err
	}

	for _, d := range records {
		status, _ := d["pending_status"].(string)
		o.Printf("%s\t%s\t%s\n", d.ID(), status, drafts.PreviewText(d, 0))
	}

	for _, id := range dropped {
		o.Println("dropped", id)
	}

	return nil
}
