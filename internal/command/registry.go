package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"kiwi-bot/pkg/cmd"
	"kiwi-bot/pkg/throttle"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// RegistryConfig tunes how guild registrations are paced.
type RegistryConfig struct {
	// Rate is the steady number of overwrite calls per second.
	Rate float64
	// Workers bounds concurrent guild registrations during a sync.
	Workers int
}

// Registry holds the loaded commands of both kinds and pushes the slash set
// to Discord. It is written only while loading and read-only afterwards.
type Registry struct {
	slash     *cmd.Registry
	prefix    *cmd.Registry
	registrar Registrar
	limiter   *throttle.AdaptiveLimiter
	workers   int
	log       *zap.Logger
}

// NewRegistry returns an empty registry. registrar may be nil when the
// registry is only used for lookups.
func NewRegistry(registrar Registrar, cfg RegistryConfig, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 5
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	r := rate.Limit(cfg.Rate)
	return &Registry{
		slash:     cmd.NewRegistry(),
		prefix:    cmd.NewRegistry(),
		registrar: registrar,
		limiter:   throttle.NewAdaptiveLimiter(r, r/4, r*2, r/10, 0.5),
		workers:   cfg.Workers,
		log:       log,
	}
}

// LoadSlash adds a slash command. The first command under a name wins;
// rejected commands are logged and the reason returned.
func (r *Registry) LoadSlash(c cmd.Command) error {
	return r.load(c, KindSlash, r.slash)
}

// LoadPrefix adds a prefix command under the same rules as LoadSlash.
func (r *Registry) LoadPrefix(c cmd.Command) error {
	return r.load(c, KindPrefix, r.prefix)
}

func (r *Registry) load(c cmd.Command, kind Kind, into *cmd.Registry) error {
	err := r.check(c, kind)
	if err == nil {
		err = into.Register(c)
	}
	if err != nil {
		name := ""
		if c != nil {
			name = c.Name()
		}
		r.log.Warn("skipping command", zap.String("kind", kind.String()), zap.String("command", name), zap.Error(err))
		return err
	}
	r.log.Debug("loaded command", zap.String("kind", kind.String()), zap.String("command", c.Name()))
	return nil
}

func (r *Registry) check(c cmd.Command, kind Kind) error {
	if c == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidDefinition)
	}
	def, ok := cmd.As[Definition](c)
	if !ok {
		return fmt.Errorf("%w: %s: %T is not a command definition", ErrInvalidDefinition, c.Name(), cmd.Root(c))
	}
	if def.Kind() != kind {
		return fmt.Errorf("%w: %s is a %s command", ErrKindMismatch, c.Name(), def.Kind())
	}
	return def.validate()
}

// LoadCatalog loads every entry of cat, each wrapped with mws, and returns
// how many were accepted.
func (r *Registry) LoadCatalog(cat Catalog, mws ...cmd.Middleware) int {
	loaded := 0
	for _, c := range cat.Slash {
		if c != nil {
			c = cmd.Apply(c, mws...)
		}
		if r.LoadSlash(c) == nil {
			loaded++
		}
	}
	for _, c := range cat.Prefix {
		if c != nil {
			c = cmd.Apply(c, mws...)
		}
		if r.LoadPrefix(c) == nil {
			loaded++
		}
	}
	r.log.Info("command catalog loaded",
		zap.Int("loaded", loaded),
		zap.Int("slash", r.slash.Len()),
		zap.Int("prefix", r.prefix.Len()))
	return loaded
}

// Resolve looks up a loaded command by name and kind.
func (r *Registry) Resolve(name string, kind Kind) (cmd.Command, bool) {
	switch kind {
	case KindSlash:
		return r.slash.Get(name)
	case KindPrefix:
		return r.prefix.Get(name)
	default:
		return nil, false
	}
}

// All returns every loaded command of kind, sorted by name.
func (r *Registry) All(kind Kind) []cmd.Command {
	switch kind {
	case KindSlash:
		return r.slash.GetAll()
	case KindPrefix:
		return r.prefix.GetAll()
	default:
		return nil
	}
}

// SlashDefinitions returns registration copies of every slash schema,
// sorted by name.
func (r *Registry) SlashDefinitions() []*discordgo.ApplicationCommand {
	all := r.slash.GetAll()
	defs := make([]*discordgo.ApplicationCommand, 0, len(all))
	for _, c := range all {
		if sc, ok := cmd.As[*SlashCommand](c); ok {
			defs = append(defs, sc.SlashDefinition())
		}
	}
	return defs
}

// UnregisterAll clears the global command set and then the set of every
// listed guild. All targets are attempted; failures are joined.
func (r *Registry) UnregisterAll(ctx context.Context, guildIDs ...string) error {
	targets := append([]string{""}, guildIDs...)
	var errs []error
	for _, id := range targets {
		if err := r.overwrite(ctx, id, []*discordgo.ApplicationCommand{}); err != nil {
			r.log.Error("failed to unregister commands", zap.String("guild_id", scope(id)), zap.Error(err))
			errs = append(errs, fmt.Errorf("unregister %s: %w", scope(id), err))
			continue
		}
		r.log.Info("unregistered commands", zap.String("guild_id", scope(id)))
	}
	return errors.Join(errs...)
}

// RegisterForGuild replaces the guild's command set with defs in one call.
// Failures are logged and returned; the next ready or join tries again.
func (r *Registry) RegisterForGuild(ctx context.Context, defs []*discordgo.ApplicationCommand, guildID string) error {
	if guildID == "" {
		return fmt.Errorf("register commands: guild id is required")
	}
	if err := r.overwrite(ctx, guildID, defs); err != nil {
		r.log.Error("failed to register commands",
			zap.String("guild_id", guildID),
			zap.Int("commands", len(defs)),
			zap.Error(err))
		return fmt.Errorf("register commands for guild %s: %w", guildID, err)
	}
	r.log.Info("registered commands", zap.String("guild_id", guildID), zap.Int("commands", len(defs)))
	return nil
}

// SyncGuild registers the full slash set for one guild.
func (r *Registry) SyncGuild(ctx context.Context, guildID string) error {
	return r.RegisterForGuild(ctx, r.SlashDefinitions(), guildID)
}

// SyncGuilds registers the full slash set for every guild, a bounded number
// at a time. A failing guild does not stop the others.
func (r *Registry) SyncGuilds(ctx context.Context, guildIDs []string) error {
	defs := r.SlashDefinitions()

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(r.workers)
	for _, id := range guildIDs {
		id := id
		g.Go(func() error {
			if err := r.RegisterForGuild(ctx, defs, id); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (r *Registry) overwrite(ctx context.Context, guildID string, defs []*discordgo.ApplicationCommand) error {
	if r.registrar == nil {
		return fmt.Errorf("no registrar configured")
	}
	return r.limiter.Do(ctx, func(ctx context.Context) error {
		return r.registrar.OverwriteCommands(ctx, guildID, defs)
	}, isRateLimited)
}

func isRateLimited(err error) bool {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode == http.StatusTooManyRequests
	}
	return throttle.IsOverloaded(err)
}

func scope(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return guildID
}
