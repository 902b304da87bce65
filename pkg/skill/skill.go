package skill

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidArgs marks a skill invocation with missing or mistyped arguments.
var ErrInvalidArgs = errors.New("invalid skill arguments")

// Tool is the interface every agent skill must implement.
type Tool interface {
	Name() string
	Category() string
	Description() string
	Parameters() map[string]any // JSON Schema
	Execute(ctx context.Context, sc *Context, args map[string]any) (string, error)
}

// Context carries the calling agent's identity and the agent's configuration
// for the skill's category. A nil Context is a valid anonymous call.
type Context struct {
	AgentID string
	Config  map[string]string
}

func (sc *Context) Value(key string) string {
	if sc == nil {
		return ""
	}
	return sc.Config[key]
}

// StringArg extracts a required non-empty string argument.
func StringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidArgs, key)
	}

	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %q must be a non-empty string", ErrInvalidArgs, key)
	}

	return s, nil
}
