package command

import (
	"context"
	"errors"
	"fmt"

	"kiwi-bot/internal/permission"
	"kiwi-bot/internal/storage"
	"kiwi-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Outcome is how a single dispatch ended.
type Outcome int

const (
	Ignored Outcome = iota
	Unknown
	Denied
	Executed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Unknown:
		return "unknown"
	case Denied:
		return "denied"
	case Executed:
		return "executed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

const (
	replyUnknown = "Unknown command."
	replyFailure = "Something went wrong while running this command."
)

// Dispatcher routes interactions and prefixed messages to loaded commands
// after checking the actor's permission level.
type Dispatcher struct {
	client *Client
	log    *zap.Logger
}

// NewDispatcher returns a dispatcher over client. client.Commands must be set.
func NewDispatcher(client *Client) *Dispatcher {
	log := client.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{client: client, log: log.Named("dispatch")}
}

// HandleInteraction dispatches a chat input interaction.
func (d *Dispatcher) HandleInteraction(ctx context.Context, e *discordgo.InteractionCreate) Outcome {
	if e == nil || e.Interaction == nil || e.Type != discordgo.InteractionApplicationCommand {
		return Ignored
	}
	data := e.ApplicationCommandData()
	if data.CommandType != 0 && data.CommandType != discordgo.ChatApplicationCommand {
		return Ignored
	}

	userID, roles := ActorIdentity(e.Interaction)
	log := d.log.With(
		zap.String("kind", KindSlash.String()),
		zap.String("command", data.Name),
		zap.String("guild_id", e.GuildID),
		zap.String("user_id", userID))

	reply := func(content string) {
		if err := d.client.Responder.RespondEphemeral(ctx, e.Interaction, content); err != nil {
			log.Warn("failed to reply", zap.Error(err))
		}
	}

	c, ok := d.client.Commands.Resolve(data.Name, KindSlash)
	if !ok {
		log.Debug("unknown command")
		reply(replyUnknown)
		return Unknown
	}

	actor, err := d.actor(ctx, e.GuildID, userID, roles)
	if err != nil {
		log.Error("failed to resolve permission level", zap.Error(err))
		reply(replyFailure)
		return Failed
	}
	if required := requiredLevel(c); actor.Level < required {
		log.Info("permission denied", zap.Int("level", actor.Level), zap.Int("required", required))
		reply(deniedMessage(required, actor.Level))
		return Denied
	}

	sc := &SlashContext{Event: e, Client: d.client, Actor: actor}
	return d.execute(ctx, log, c, &cmd.Invocation{Data: sc}, reply)
}

// HandleMessage dispatches a prefixed text message. Messages without the
// prefix are ignored without any side effect.
func (d *Dispatcher) HandleMessage(ctx context.Context, m *discordgo.MessageCreate) Outcome {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return Ignored
	}
	name, args, raw, ok := SplitPrefixed(m.Content, d.client.Prefix)
	if !ok {
		return Ignored
	}

	log := d.log.With(
		zap.String("kind", KindPrefix.String()),
		zap.String("command", name),
		zap.String("guild_id", m.GuildID),
		zap.String("user_id", m.Author.ID))

	c, ok := d.client.Commands.Resolve(name, KindPrefix)
	if !ok {
		log.Debug("unknown command")
		return Unknown
	}

	reply := func(content string) {
		if err := d.client.Responder.Reply(ctx, m.Message, content); err != nil {
			log.Warn("failed to reply", zap.Error(err))
		}
	}

	roles, err := d.messageRoles(ctx, m)
	if err != nil {
		log.Error("failed to look up member roles", zap.Error(err))
		reply(replyFailure)
		return Failed
	}
	actor, err := d.actor(ctx, m.GuildID, m.Author.ID, roles)
	if err != nil {
		log.Error("failed to resolve permission level", zap.Error(err))
		reply(replyFailure)
		return Failed
	}
	if required := requiredLevel(c); actor.Level < required {
		log.Info("permission denied", zap.Int("level", actor.Level), zap.Int("required", required))
		reply(deniedMessage(required, actor.Level))
		return Denied
	}

	pc := &PrefixContext{Event: m, Client: d.client, Actor: actor, Args: args, RawArgs: raw}
	return d.execute(ctx, log, c, &cmd.Invocation{Args: args, Data: pc}, reply)
}

func (d *Dispatcher) execute(ctx context.Context, log *zap.Logger, c cmd.Command, inv *cmd.Invocation, reply func(string)) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("command panicked", zap.Any("panic", r), zap.Stack("stack"))
			reply(replyFailure)
			outcome = Failed
		}
	}()

	if err := c.Run(ctx, inv); err != nil {
		log.Error("command failed", zap.Error(err))
		reply(replyFailure)
		return Failed
	}
	return Executed
}

// actor resolves the caller's level. Outside a guild there is no config
// and the level is 0.
func (d *Dispatcher) actor(ctx context.Context, guildID, userID string, roles []string) (Actor, error) {
	a := Actor{GuildID: guildID, UserID: userID, RoleIDs: roles}
	if guildID == "" {
		return a, nil
	}
	cfg, err := d.client.Store.GetGuildConfig(ctx, guildID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		cfg = nil
	case err != nil:
		return a, fmt.Errorf("load guild config: %w", err)
	}
	a.Level = permission.Resolve(cfg, userID, roles)
	return a, nil
}

func (d *Dispatcher) messageRoles(ctx context.Context, m *discordgo.MessageCreate) ([]string, error) {
	if m.GuildID == "" {
		return nil, nil
	}
	if m.Member != nil {
		return m.Member.Roles, nil
	}
	if d.client.Directory == nil {
		return nil, nil
	}
	return d.client.Directory.MemberRoles(ctx, m.GuildID, m.Author.ID)
}

func requiredLevel(c cmd.Command) int {
	if def, ok := cmd.As[Definition](c); ok {
		return def.PermissionLevel()
	}
	return 0
}

func deniedMessage(required, have int) string {
	return fmt.Sprintf("You need permission level %d to use this command (yours: %d).", required, have)
}
