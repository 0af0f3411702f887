package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrDuplicate = errors.New("command already registered")

// Registry stores commands by name. It does not perform dispatch; adapters
// look up commands and invoke them with their own context.
type Registry struct {
	commands map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command. The first command registered under a name stays;
// later registrations under the same name return ErrDuplicate.
func (r *Registry) Register(c Command) error {
	if c == nil {
		return errors.New("nil command")
	}
	name := c.Name()
	if strings.TrimSpace(name) == "" {
		return errors.New("command name is empty")
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("%s: %w", name, ErrDuplicate)
	}
	r.commands[name] = c
	return nil
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.commands) }
