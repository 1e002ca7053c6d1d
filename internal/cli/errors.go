package cli

import "errors"

// CLI errors.
var (
	ErrFlagRequiresArg = errors.New("flag requires an argument")
	ErrUnknownFlag     = errors.New("unknown flag")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrArgRequired     = errors.New("missing argument")
	ErrTooManyArgs     = errors.New("too many arguments")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrNoURL           = errors.New("no url for draft")
	ErrInvalidFilter   = errors.New("invalid filter state")
	ErrInvalidSort     = errors.New("invalid sort state")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrInvalidGens     = errors.New("invalid generation count")
)
