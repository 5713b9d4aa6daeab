package shell

import (
	"context"

	"github.com/deriamis/mongosh/internal/prompt"
)

// Plugin handles shell commands that are not JavaScript.
type Plugin interface {
	MatchesCommand(cmd string) bool
	RunCommand(ctx context.Context, args []string, p prompt.Prompter) (string, error)
	TransformError(err error) error
}
