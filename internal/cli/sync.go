package cli

import (
	"context"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// SyncCmd returns the sync command.
func SyncCmd(cfg *config.Config, in io.Reader) *Command {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.Bool("append", false, "Append as the next page instead of refreshing")

	return &Command{
		Flags: fs,
		Usage: "sync [--append] <file|->",
		Short: "Merge a fetched draft page into the cache",
		Long: `Merge a fetched list response into the cached draft list.

The response may be a JSON array of drafts or an object holding them under
"items" or "data.items". By default the page is a refresh: its drafts come
first and replace cached drafts with the same id. With --append the page is
the next page of a paginated listing and only unseen ids are appended.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execSync(o, cfg, in, fs, args)
		},
	}
}

func execSync(o *IO, cfg *config.Config, in io.Reader, fs *flag.FlagSet, args []string) error {
	err := exactArgs(args, 1, "file or - for stdin")
	if err != nil {
		return err
	}

	appendPage, _ := fs.GetBool("append")

	payload, err := readPayload(cfg, in, args[0])
	if err != nil {
		return err
	}

	page := drafts.Page(payload)

	var before, after int

	err = openStore(cfg).Update(func(s *state.Snapshot) error {
		before = len(s.Drafts)

		if appendPage {
			s.Drafts = drafts.AppendUnique(s.Drafts, page)
		} else {
			s.Drafts = drafts.MergeByID(page, s.Drafts)
		}

		after = len(s.Drafts)

		return nil
	})
	if err != nil {
		return err
	}

	skipped := 0

	for _, d := range page {
		if d.ID() == "" {
			skipped++
		}
	}

	if skipped > 0 {
		o.Warn(fmt.Sprintf("skipped %d drafts without id", skipped), "check that the response holds draft records")
	}

	o.Printf("cached %d drafts (%d new)\n", after, max(after-before, 0))

	return nil
}
