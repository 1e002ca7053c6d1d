package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// URLCmd returns the url command.
func URLCmd(cfg *config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("url", flag.ContinueOnError),
		Usage: "url post|trim <id>",
		Short: "Print the post or trim link of a draft",
		Long: `Print a link for a cached draft.

post  the public post page; fails for drafts that were never posted
trim  the storyboard trim page; fails for drafts that cannot be trimmed`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execURL(o, cfg, args)
		},
	}
}

func execURL(o *IO, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: post or trim", ErrArgRequired)
	}

	kind := args[0]
	if kind != "post" && kind != "trim" {
		return fmt.Errorf("%w: url %s", ErrUnknownCommand, kind)
	}

	err := exactArgs(args[1:], 1, "draft id")
	if err != nil {
		return err
	}

	snap, err := openStore(cfg).Load()
	if err != nil {
		return err
	}

	d, ok := findDraft(snap.Drafts, args[1])
	if !ok {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, args[1])
	}

	var link string

	switch kind {
	case "post":
		if drafts.IsPubliclyPosted(d) {
			link = drafts.PostURL(d, cfg.Origin)
		}
	case "trim":
		link = drafts.TrimURL(d, cfg.Origin)
	}

	if link == "" {
		return fmt.Errorf("%w: %s %s", ErrNoURL, kind, d.ID())
	}

	o.Println(link)

	return nil
}
