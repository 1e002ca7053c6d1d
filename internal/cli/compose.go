package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// ComposeCmd returns the compose command.
func ComposeCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.String("mode", "create", "Composer mode: create, remix or extend")
	fs.Float64("gens", 1, "Requested generation count")
	fs.String("source", "", "Source draft id for remix and extend")

	return &Command{
		Flags: fs,
		Usage: "compose [--mode m] [--gens n] [--source id]",
		Short: "Check composer settings",
		Long: `Resolve composer settings the way the composer applies them.

The generation count is rounded and clamped to 1..10, or 1..40 with
ultra_mode. remix and extend need a cached source draft.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execCompose(o, cfg, fs)
		},
	}
}

func execCompose(o *IO, cfg *config.Config, fs *flag.FlagSet) error {
	mode, _ := fs.GetString("mode")
	mode = strings.ToLower(strings.TrimSpace(mode))
	gens, _ := fs.GetFloat64("gens")
	source, _ := fs.GetString("source")

	if math.IsNaN(gens) || math.IsInf(gens, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidGens, gens)
	}

	requiresSource := drafts.ModeRequiresSource(mode)

	if requiresSource {
		if source == "" {
			return fmt.Errorf("%w: --source for mode %s", ErrArgRequired, mode)
		}

		snap, err := openStore(cfg).Load()
		if err != nil {
			return err
		}

		if _, ok := findDraft(snap.Drafts, source); !ok {
			return fmt.Errorf("%w: %s", ErrDraftNotFound, source)
		}
	}

	o.Printf("mode=%s\nrequires_source=%t\ngens=%d\nmax=%d\n",
		mode, requiresSource, drafts.ClampGensCount(gens, cfg.UltraMode), drafts.GensCountMax(cfg.UltraMode))

	return nil
}
