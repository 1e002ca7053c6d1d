package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calvinalkan/uvd/internal/config"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
//
// The context passed to commands is cancelled when sigCh delivers a signal;
// sigCh may be nil.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(out)

		return 0
	}

	name := flags.remaining[0]

	var cmd *Command

	cfg := &config.Config{}

	for _, c := range commands(cfg, in) {
		if c.Name() == name {
			cmd = c

			break
		}
	}

	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		printUsage(errOut)

		return 1
	}

	loaded, err := config.Load(config.LoadInput{
		WorkDirOverride:  flags.workDir,
		ConfigPath:       flags.configPath,
		StateDirOverride: flags.stateDir,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	*cfg = loaded

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(out, errOut), flags.remaining[1:])
}

// commands returns all commands in help order. cfg is filled in after the
// command was selected, before it runs.
func commands(cfg *config.Config, in io.Reader) []*Command {
	return []*Command{
		SyncCmd(cfg, in),
		RmCmd(cfg),
		LsCmd(cfg),
		StatsCmd(cfg),
		BookmarkCmd(cfg),
		SeenCmd(cfg),
		PendingCmd(cfg, in),
		OverrideCmd(cfg, in),
		ViewCmd(cfg),
		URLCmd(cfg),
		ComposeCmd(cfg),
		ReplCmd(cfg, in),
		BridgeCmd(cfg),
		PrintConfigCmd(cfg),
	}
}

type globalFlags struct {
	workDir    string
	configPath string
	stateDir   *string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	value, consumed, ok, err := flagValue(args, idx, "-C", "--cwd")
	if ok || err != nil {
		flags.workDir = value

		return consumed, err
	}

	value, consumed, ok, err = flagValue(args, idx, "-c", "--config")
	if ok || err != nil {
		flags.configPath = value

		return consumed, err
	}

	value, consumed, ok, err = flagValue(args, idx, "", "--state-dir")
	if ok || err != nil {
		flags.stateDir = &value

		return consumed, err
	}

	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	return consumedNone, nil
}

// flagValue matches "-s value", "-svalue", "--long value" and "--long=value"
// at args[idx]. short may be empty.
func flagValue(args []string, idx int, short, long string) (string, int, bool, error) {
	arg := args[idx]

	if arg == long || (short != "" && arg == short) {
		if idx+1 >= len(args) {
			return "", consumedNone, false, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		return args[idx+1], consumedTwo, true, nil
	}

	if after, ok := strings.CutPrefix(arg, long+"="); ok {
		return after, consumedOne, true, nil
	}

	if short != "" {
		if after, ok := strings.CutPrefix(arg, short); ok && after != "" {
			return after, consumedOne, true, nil
		}
	}

	return "", consumedNone, false, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `uvd - draft list cache, search and dashboard bridge

Usage: uvd [options] <command> [args]

Options:
  -C, --cwd <dir>        Run as if started in <dir>
  -c, --config <file>    Use specified config file
      --state-dir <dir>  Override the state directory

Commands:`)

	for _, c := range commands(&config.Config{}, nil) {
		fprintln(w, c.HelpLine())
	}
}
