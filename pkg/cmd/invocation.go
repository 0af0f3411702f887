// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is registered and
// dispatched (Discord slash, text prefix, CLI) is defined by adapters that wrap this.
package cmd

import "context"

// Invocation carries what a runner passes to a command: parsed arguments and
// an opaque payload. Adapters set Data to their context type.
type Invocation struct {
	Args []string
	Data any
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
