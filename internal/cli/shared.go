package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/internal/workspace"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

func openStore(cfg *config.Config) *state.Store {
	return state.Open(cfg.StateDirAbs)
}

func newResolver(cfg *config.Config) *workspace.Resolver {
	return workspace.NewResolver(workspace.MapSource(cfg.Workspaces), cfg.WorkspaceCacheSize, cfg.CacheTTL)
}

// readInput reads the named file relative to the working directory, or in
// when name is "-".
func readInput(cfg *config.Config, in io.Reader, name string) ([]byte, error) {
	if name == "-" {
		if in == nil {
			return nil, fmt.Errorf("%w: no stdin", ErrArgRequired)
		}

		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		return data, nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.EffectiveCwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return data, nil
}

// readPayload reads and decodes a JSON payload argument.
func readPayload(cfg *config.Config, in io.Reader, name string) (any, error) {
	data, err := readInput(cfg, in, name)
	if err != nil {
		return nil, err
	}

	var payload any

	err = json.Unmarshal(data, &payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return payload, nil
}

func findDraft(list []drafts.Draft, id string) (drafts.Draft, bool) {
	want := drafts.NormalizeID(id)

	for _, d := range list {
		if d.ID() == want {
			return d, true
		}
	}

	return nil, false
}

func exactArgs(args []string, n int, what string) error {
	if len(args) < n {
		return fmt.Errorf("%w: %s", ErrArgRequired, what)
	}

	if len(args) > n {
		return fmt.Errorf("%w: %v", ErrTooManyArgs, args[n:])
	}

	return nil
}
