package cli

import (
	"context"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

// OverrideCmd returns the override command.
func OverrideCmd(cfg *config.Config, in io.Reader) *Command {
	fs := flag.NewFlagSet("override", flag.ContinueOnError)
	fs.String("prompt", "", "Prompt")
	fs.String("model", "", "Model")
	fs.String("orientation", "", "Orientation")
	fs.String("resolution", "", "Resolution")
	fs.String("style", "", "Style")
	fs.String("mode", "", "Mode")
	fs.String("seed", "", "Seed (digits only, at most 10)")

	return &Command{
		Flags: fs,
		Usage: "override [flags] <file|->",
		Short: "Apply overrides to a create request body",
		Long: `Apply composer overrides to a create request body and print the result.

Overrides are written to the top level and to creation_config. When the body
wraps the real request as a JSON string under "body", that inner request is
updated too. Bodies that are not JSON objects are printed unchanged.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			err := exactArgs(args, 1, "file or - for stdin")
			if err != nil {
				return err
			}

			body, err := readInput(cfg, in, args[0])
			if err != nil {
				return err
			}

			var overrides drafts.CreateOverrides
			overrides.Prompt, _ = fs.GetString("prompt")
			overrides.Model, _ = fs.GetString("model")
			overrides.Orientation, _ = fs.GetString("orientation")
			overrides.Resolution, _ = fs.GetString("resolution")
			overrides.Style, _ = fs.GetString("style")
			overrides.Mode, _ = fs.GetString("mode")
			overrides.Seed, _ = fs.GetString("seed")

			o.Println(drafts.ApplyCreateOverrides(strings.TrimSpace(string(body)), overrides))

			return nil
		},
	}
}
