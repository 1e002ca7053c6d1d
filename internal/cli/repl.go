package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/uvd/internal/config"
	"github.com/calvinalkan/uvd/internal/state"
	"github.com/calvinalkan/uvd/internal/workspace"
	"github.com/calvinalkan/uvd/pkg/drafts"
)

const replPrompt = "uvd> "

var replCommands = []string{
	"ls", "stats", "filter", "sort", "ws", "clear",
	"bookmark", "seen", "post", "trim", "help", "exit", "quit", "q",
}

// ReplCmd returns the repl command.
func ReplCmd(cfg *config.Config, in io.Reader) *Command {
	return &Command{
		Flags: flag.NewFlagSet("repl", flag.ContinueOnError),
		Usage: "repl",
		Short: "Browse cached drafts interactively",
		Long: `Browse cached drafts interactively.

Any line that is not a command is used as the search query. View changes are
saved immediately. Type 'help' in the REPL for commands.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return runRepl(ctx, o, cfg, in)
		},
	}
}

// prompter reads REPL lines. liner is used on a terminal stdin, a plain
// line reader otherwise.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

type lineReader struct {
	scanner *bufio.Scanner
}

func (r *lineReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		err := r.scanner.Err()
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		return "", io.EOF
	}

	return r.scanner.Text(), nil
}

func (*lineReader) AppendHistory(string) {}

func (*lineReader) Close() error { return nil }

type repl struct {
	o        *IO
	cfg      *config.Config
	store    *state.Store
	resolver *workspace.Resolver
}

func runRepl(ctx context.Context, o *IO, cfg *config.Config, in io.Reader) error {
	if in == nil {
		return fmt.Errorf("%w: no stdin", ErrArgRequired)
	}

	r := &repl{
		o:        o,
		cfg:      cfg,
		store:    openStore(cfg),
		resolver: newResolver(cfg),
	}

	var p prompter

	if f, ok := in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		line := liner.NewLiner()
		line.SetCtrlCAborts(true)
		line.SetCompleter(complete)

		if path := historyFile(); path != "" {
			if hf, err := os.Open(path); err == nil {
				_, _ = line.ReadHistory(hf)
				_ = hf.Close()
			}

			defer saveHistory(line, path)
		}

		p = line
	} else {
		p = &lineReader{scanner: bufio.NewScanner(in)}
	}

	defer func() { _ = p.Close() }()

	for ctx.Err() == nil {
		input, err := p.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		p.AppendHistory(input)

		quit, err := r.eval(input)
		if err != nil {
			o.Println("error:", err)
		}

		if quit {
			return nil
		}
	}

	return nil
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".uvd_history")
}

func saveHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		return
	}

	_, _ = line.WriteHistory(f)
	_ = f.Close()
}

// complete completes the command word, and filter keys in later words.
func complete(line string) []string {
	head, word := "", line
	if i := strings.LastIndexByte(line, ' '); i >= 0 {
		head, word = line[:i+1], line[i+1:]
	}

	candidates := replCommands
	if head != "" {
		candidates = make([]string, 0, len(drafts.FilterKeys)+len(drafts.FilterStates))
		for _, key := range drafts.FilterKeys {
			candidates = append(candidates, key+":")
		}

		candidates = append(candidates, drafts.FilterStates...)
	}

	var out []string

	lower := strings.ToLower(word)
	for _, c := range candidates {
		if strings.HasPrefix(c, lower) {
			out = append(out, head+c)
		}
	}

	return out
}

// eval runs one REPL line and reports whether the REPL should exit.
func (r *repl) eval(line string) (bool, error) {
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(word) {
	case "exit", "quit", "q":
		return true, nil

	case "help", "?":
		r.printHelp()

		return false, nil

	case "ls":
		return false, r.list()

	case "stats":
		snap, err := r.store.Load()
		if err != nil {
			return false, err
		}

		s := drafts.ComputeStats(snap.Drafts, snap.Bookmarks, snap.Seen)
		r.o.Printf("total=%d bookmarked=%d hidden=%d new=%d\n", s.Total, s.Bookmarked, s.Hidden, s.NewCount)

		return false, nil

	case "filter":
		if !slices.Contains(drafts.FilterStates, rest) {
			return false, fmt.Errorf("%w: %q", ErrInvalidFilter, rest)
		}

		return false, r.updateView(func(v *drafts.ViewState) { v.FilterState = rest })

	case "sort":
		if !slices.Contains(drafts.SortStates, rest) {
			return false, fmt.Errorf("%w: %q", ErrInvalidSort, rest)
		}

		return false, r.updateView(func(v *drafts.ViewState) { v.SortState = rest })

	case "ws":
		return false, r.updateView(func(v *drafts.ViewState) {
			if rest == "" || rest == "-" {
				v.WorkspaceFilter = nil
			} else {
				ws := rest
				v.WorkspaceFilter = &ws
			}
		})

	case "clear":
		return false, r.updateView(func(v *drafts.ViewState) { v.SearchQuery = "" })

	case "bookmark":
		return false, r.toggleBookmark(rest)

	case "seen":
		if rest == "" {
			return false, fmt.Errorf("%w: draft id", ErrArgRequired)
		}

		err := r.store.Update(func(s *state.Snapshot) error {
			s.Seen.Add(rest)

			return nil
		})
		if err != nil {
			return false, err
		}

		r.o.Println("seen", rest)

		return false, nil

	case "post", "trim":
		return false, r.printURL(strings.ToLower(word), rest)

	default:
		return false, r.updateView(func(v *drafts.ViewState) { v.SearchQuery = line })
	}
}

// updateView saves the changed view and lists the drafts it shows.
func (r *repl) updateView(change func(*drafts.ViewState)) error {
	err := r.store.Update(func(s *state.Snapshot) error {
		change(&s.View)

		return nil
	})
	if err != nil {
		return err
	}

	return r.list()
}

func (r *repl) list() error {
	snap, err := r.store.Load()
	if err != nil {
		return err
	}

	shown := drafts.ApplyView(snap.Drafts, snap.View, drafts.ViewOptions{
		Bookmarks:            snap.Bookmarks,
		JustSeen:             snap.Seen,
		ResolveWorkspaceName: r.resolver.Resolve,
	})

	printDrafts(r.o, shown, snap, 0)
	r.o.Printf("%d of %d drafts\n", len(shown), len(snap.Drafts))

	return nil
}

func (r *repl) toggleBookmark(id string) error {
	if id == "" {
		return fmt.Errorf("%w: draft id", ErrArgRequired)
	}

	added := false

	err := r.store.Update(func(s *state.Snapshot) error {
		added = s.Bookmarks.Add(id)
		if !added {
			s.Bookmarks.Remove(id)
		}

		return nil
	})
	if err != nil {
		return err
	}

	if added {
		r.o.Println("bookmarked", id)
	} else {
		r.o.Println("unbookmarked", id)
	}

	return nil
}

func (r *repl) printURL(kind, id string) error {
	return execURL(r.o, r.cfg, []string{kind, id})
}

func (r *repl) printHelp() {
	r.o.Println("Commands:")
	r.o.Println("  ls                 List drafts of the current view")
	r.o.Println("  stats              Show draft counts")
	r.o.Println("  filter <state>     " + strings.Join(drafts.FilterStates, ", "))
	r.o.Println("  sort <state>       " + strings.Join(drafts.SortStates, ", "))
	r.o.Println("  ws [id|-]          Set or clear the workspace filter")
	r.o.Println("  clear              Clear the search query")
	r.o.Println("  bookmark <id>      Toggle a bookmark")
	r.o.Println("  seen <id>          Mark a draft as seen")
	r.o.Println("  post|trim <id>     Print a draft link")
	r.o.Println("  exit / quit / q    Exit")
	r.o.Println()
	r.o.Println("Anything else is a search query, e.g. model:sora2 dur:>10 neon")
}
