package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoOpenCommand is returned by a [CommandOpener] without a command.
var ErrNoOpenCommand = errors.New("no open command configured")

// Opener opens the dashboard. tabID is nil when the opener cannot tell which
// tab it opened.
type Opener interface {
	Open(ctx context.Context, url string) (tabID *int, err error)
}

// OpenerFunc adapts a function to [Opener].
type OpenerFunc func(ctx context.Context, url string) (*int, error)

// Open implements [Opener].
func (f OpenerFunc) Open(ctx context.Context, url string) (*int, error) {
	return f(ctx, url)
}

// CommandOpener opens the dashboard by running Command with the URL as last
// argument, e.g. "xdg-open" or "open -a Firefox".
type CommandOpener struct {
	Command string
}

// Open implements [Opener]. It waits for the command and reports its stderr
// on failure. The tab id is never known.
func (o CommandOpener) Open(ctx context.Context, url string) (*int, error) {
	fields := strings.Fields(o.Command)
	if len(fields) == 0 {
		return nil, ErrNoOpenCommand
	}

	args := append(fields[1:], url)
	cmd := exec.CommandContext(ctx, fields[0], args...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", fields[0], err, msg)
		}

		return nil, fmt.Errorf("%s: %w", fields[0], err)
	}

	return nil, nil
}
