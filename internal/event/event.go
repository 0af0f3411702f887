// Package event loads gateway event handlers and binds them to an emitter.
package event

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Name identifies a gateway event.
type Name string

const (
	Ready             Name = "READY"
	GuildCreate       Name = "GUILD_CREATE"
	GuildDelete       Name = "GUILD_DELETE"
	InteractionCreate Name = "INTERACTION_CREATE"
	MessageCreate     Name = "MESSAGE_CREATE"
)

// payloads maps each supported event to the argument type its handler takes.
var payloads = map[Name]reflect.Type{
	Ready:             reflect.TypeOf((*discordgo.Ready)(nil)),
	GuildCreate:       reflect.TypeOf((*discordgo.GuildCreate)(nil)),
	GuildDelete:       reflect.TypeOf((*discordgo.GuildDelete)(nil)),
	InteractionCreate: reflect.TypeOf((*discordgo.InteractionCreate)(nil)),
	MessageCreate:     reflect.TypeOf((*discordgo.MessageCreate)(nil)),
}

var sessionType = reflect.TypeOf((*discordgo.Session)(nil))

var (
	ErrInvalidDefinition = errors.New("invalid event definition")
	ErrDuplicate         = errors.New("event definition already loaded")
)

// Definition binds one handler to one event. Handler is a discordgo typed
// handler such as func(*discordgo.Session, *discordgo.Ready).
type Definition struct {
	Name    Name
	Once    bool
	Handler any
}

// Emitter is the part of *discordgo.Session the registry binds to.
type Emitter interface {
	AddHandler(handler any) func()
	AddHandlerOnce(handler any) func()
}

// Registry keeps event definitions in load order.
type Registry struct {
	emitter Emitter
	log     *zap.Logger
	defs    []*Definition
	loaded  map[*Definition]struct{}
	removes []func()
}

func NewRegistry(emitter Emitter, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		emitter: emitter,
		log:     log.Named("events"),
		loaded:  make(map[*Definition]struct{}),
	}
}

// Load validates def and queues it for binding. Each definition is loaded at
// most once.
func (r *Registry) Load(def *Definition) error {
	if err := validate(def); err != nil {
		r.log.Warn("skipping event", zap.Error(err))
		return err
	}
	if _, ok := r.loaded[def]; ok {
		err := fmt.Errorf("%w: %s", ErrDuplicate, def.Name)
		r.log.Warn("skipping event", zap.Error(err))
		return err
	}
	r.loaded[def] = struct{}{}
	r.defs = append(r.defs, def)
	return nil
}

// LoadAll loads every definition and returns how many were accepted.
func (r *Registry) LoadAll(defs ...*Definition) int {
	n := 0
	for _, d := range defs {
		if r.Load(d) == nil {
			n++
		}
	}
	return n
}

// Bind attaches every loaded definition to the emitter in load order and
// returns how many were bound.
func (r *Registry) Bind() int {
	for _, d := range r.defs {
		var remove func()
		if d.Once {
			remove = r.emitter.AddHandlerOnce(d.Handler)
		} else {
			remove = r.emitter.AddHandler(d.Handler)
		}
		r.removes = append(r.removes, remove)
		r.log.Debug("bound event", zap.String("event", string(d.Name)), zap.Bool("once", d.Once))
	}
	r.log.Info("events bound", zap.Int("count", len(r.defs)))
	return len(r.defs)
}

// Close detaches every handler bound so far.
func (r *Registry) Close() {
	for _, remove := range r.removes {
		if remove != nil {
			remove()
		}
	}
	r.removes = nil
}

// Definitions returns the loaded definitions in load order.
func (r *Registry) Definitions() []*Definition {
	return append([]*Definition(nil), r.defs...)
}

func validate(def *Definition) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}
	payload, ok := payloads[def.Name]
	if !ok {
		return fmt.Errorf("%w: unsupported event %q", ErrInvalidDefinition, def.Name)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: %s: handler is nil", ErrInvalidDefinition, def.Name)
	}
	t := reflect.TypeOf(def.Handler)
	if t.Kind() != reflect.Func || t.NumIn() != 2 || t.NumOut() != 0 ||
		t.In(0) != sessionType || t.In(1) != payload {
		return fmt.Errorf("%w: %s: handler must be func(*discordgo.Session, %s), got %s",
			ErrInvalidDefinition, def.Name, payload, t)
	}
	return nil
}
