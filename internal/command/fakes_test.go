package command

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"kiwi-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type overwriteCall struct {
	GuildID string
	Names   []string
}

type fakeRegistrar struct {
	mu    sync.Mutex
	calls []overwriteCall
	fail  map[string]error
}

func (f *fakeRegistrar) OverwriteCommands(_ context.Context, guildID string, cmds []*discordgo.ApplicationCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	f.calls = append(f.calls, overwriteCall{GuildID: guildID, Names: names})
	return f.fail[guildID]
}

func (f *fakeRegistrar) Calls() []overwriteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]overwriteCall(nil), f.calls...)
}

type sent struct {
	Ephemeral bool
	Content   string
}

type fakeResponder struct {
	mu   sync.Mutex
	sent []sent
}

func (f *fakeResponder) RespondEphemeral(_ context.Context, _ *discordgo.Interaction, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{Ephemeral: true, Content: content})
	return nil
}

func (f *fakeResponder) Reply(_ context.Context, _ *discordgo.Message, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{Content: content})
	return nil
}

func (f *fakeResponder) Sent() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sent...)
}

type fakeDirectory struct {
	roles map[string][]string
}

func (f *fakeDirectory) UserName(_ context.Context, _, userID string) (string, error) {
	return "user-" + userID, nil
}

func (f *fakeDirectory) RoleName(_ context.Context, _, roleID string) (string, error) {
	return "role-" + roleID, nil
}

func (f *fakeDirectory) MemberRoles(_ context.Context, _, userID string) ([]string, error) {
	return f.roles[userID], nil
}

// brokenStore fails every read with a non-not-found error.
type brokenStore struct {
	storage.GuildConfigStore
}

func (brokenStore) GetGuildConfig(context.Context, string) (*storage.GuildConfig, error) {
	return nil, errors.New("disk on fire")
}

func openStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type harness struct {
	reg       *Registry
	registrar *fakeRegistrar
	responder *fakeResponder
	directory *fakeDirectory
	store     storage.GuildConfigStore
	client    *Client
	disp      *Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		registrar: &fakeRegistrar{},
		responder: &fakeResponder{},
		directory: &fakeDirectory{roles: map[string][]string{}},
		store:     openStore(t),
	}
	h.reg = NewRegistry(h.registrar, RegistryConfig{Rate: 1000, Workers: 2}, zap.NewNop())
	h.client = &Client{
		Store:     h.store,
		Responder: h.responder,
		Directory: h.directory,
		Commands:  h.reg,
		Prefix:    "!",
		Log:       zap.NewNop(),
	}
	h.disp = NewDispatcher(h.client)
	return h
}

func slashCmd(name string, level int, run func(context.Context, *SlashContext) error) *SlashCommand {
	if run == nil {
		run = func(context.Context, *SlashContext) error { return nil }
	}
	return &SlashCommand{
		Config:  &discordgo.ApplicationCommand{Name: name, Description: name + " command"},
		Level:   level,
		Handler: run,
	}
}

func prefixCmd(name string, level int, run func(context.Context, *PrefixContext) error) *PrefixCommand {
	if run == nil {
		run = func(context.Context, *PrefixContext) error { return nil }
	}
	return &PrefixCommand{CommandName: name, Summary: name + " command", Level: level, Handler: run}
}

func interaction(guildID, userID, name string, roles ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID}, Roles: roles},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
		},
	}}
}

func message(guildID, userID, content string, roles ...string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		GuildID: guildID,
		Content: content,
		Author:  &discordgo.User{ID: userID},
		Member:  &discordgo.Member{Roles: roles},
	}}
}
