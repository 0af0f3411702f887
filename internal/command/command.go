// Package command defines the two command kinds the bot serves, the registry
// that loads and registers them with Discord, and the dispatcher that gates
// every inbound interaction or message on the actor's permission level.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"kiwi-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// Kind separates structured (slash) commands from text (prefix) commands.
type Kind int

const (
	KindSlash Kind = iota + 1
	KindPrefix
)

func (k Kind) String() string {
	switch k {
	case KindSlash:
		return "slash"
	case KindPrefix:
		return "prefix"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const maxNameLength = 32

var (
	ErrInvalidDefinition = errors.New("invalid command definition")
	ErrKindMismatch      = errors.New("command kind mismatch")
)

// Definition is implemented by *SlashCommand and *PrefixCommand only.
type Definition interface {
	cmd.Command
	Kind() Kind
	PermissionLevel() int
	validate() error
}

// Catalog is the full set of commands handed to the registry at startup.
type Catalog struct {
	Slash  []cmd.Command
	Prefix []cmd.Command
}

// SlashCommand is a structured command registered per guild with Discord.
type SlashCommand struct {
	Config  *discordgo.ApplicationCommand
	Level   int
	Handler func(ctx context.Context, c *SlashContext) error
}

var _ Definition = (*SlashCommand)(nil)

func (c *SlashCommand) Name() string {
	if c.Config == nil {
		return ""
	}
	return c.Config.Name
}

func (c *SlashCommand) Description() string {
	if c.Config == nil {
		return ""
	}
	return c.Config.Description
}

func (c *SlashCommand) Kind() Kind           { return KindSlash }
func (c *SlashCommand) PermissionLevel() int { return c.Level }

// SlashDefinition returns a copy of the schema ready for registration.
func (c *SlashCommand) SlashDefinition() *discordgo.ApplicationCommand {
	def := *c.Config
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return &def
}

func (c *SlashCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return fmt.Errorf("slash command %q: unexpected context %T", c.Name(), inv.Data)
	}
	return c.Handler(ctx, sc)
}

func (c *SlashCommand) validate() error {
	if c.Config == nil {
		return fmt.Errorf("%w: slash command without schema", ErrInvalidDefinition)
	}
	if err := validateName(c.Config.Name); err != nil {
		return err
	}
	if c.Config.Type != 0 && c.Config.Type != discordgo.ChatApplicationCommand {
		return fmt.Errorf("%w: %s: only chat input commands are supported", ErrInvalidDefinition, c.Config.Name)
	}
	if strings.TrimSpace(c.Config.Description) == "" {
		return fmt.Errorf("%w: %s: description is required", ErrInvalidDefinition, c.Config.Name)
	}
	return validateCommon(c.Config.Name, c.Level, c.Handler != nil)
}

// PrefixCommand is a text command triggered by the configured prefix.
type PrefixCommand struct {
	CommandName string
	Summary     string
	Level       int
	Handler     func(ctx context.Context, c *PrefixContext) error
}

var _ Definition = (*PrefixCommand)(nil)

func (c *PrefixCommand) Name() string         { return c.CommandName }
func (c *PrefixCommand) Description() string  { return c.Summary }
func (c *PrefixCommand) Kind() Kind           { return KindPrefix }
func (c *PrefixCommand) PermissionLevel() int { return c.Level }

func (c *PrefixCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	pc, ok := inv.Data.(*PrefixContext)
	if !ok {
		return fmt.Errorf("prefix command %q: unexpected context %T", c.Name(), inv.Data)
	}
	return c.Handler(ctx, pc)
}

func (c *PrefixCommand) validate() error {
	if err := validateName(c.CommandName); err != nil {
		return err
	}
	return validateCommon(c.CommandName, c.Level, c.Handler != nil)
}

// validateName enforces names the dispatcher can match: non-empty,
// lowercase and free of whitespace.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidDefinition)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: %s: name longer than %d", ErrInvalidDefinition, name, maxNameLength)
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsUpper(r) {
			return fmt.Errorf("%w: %s: name must be lowercase without spaces", ErrInvalidDefinition, name)
		}
	}
	return nil
}

func validateCommon(name string, level int, hasHandler bool) error {
	if level < 0 {
		return fmt.Errorf("%w: %s: negative permission level", ErrInvalidDefinition, name)
	}
	if !hasHandler {
		return fmt.Errorf("%w: %s: handler is nil", ErrInvalidDefinition, name)
	}
	return nil
}
