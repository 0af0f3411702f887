package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestSplitPrefixed(t *testing.T) {
	tests := []struct {
		content, prefix string
		name            string
		args            []string
		raw             string
		ok              bool
	}{
		{content: "!ping", prefix: "!", name: "ping", args: []string{}, ok: true},
		{content: "! Help me  now", prefix: "!", name: "help", args: []string{"me", "now"}, raw: "me  now", ok: true},
		{content: "k!perms 123", prefix: "k!", name: "perms", args: []string{"123"}, raw: "123", ok: true},
		{content: "ping", prefix: "!"},
		{content: "!", prefix: "!"},
		{content: "!ping", prefix: ""},
	}
	for _, tt := range tests {
		name, args, raw, ok := SplitPrefixed(tt.content, tt.prefix)
		assert.Equal(t, tt.ok, ok, tt.content)
		if !tt.ok {
			continue
		}
		assert.Equal(t, tt.name, name, tt.content)
		assert.Equal(t, tt.args, args, tt.content)
		assert.Equal(t, tt.raw, raw, tt.content)
	}
}

func TestParseUserID(t *testing.T) {
	for in, want := range map[string]string{
		"<@123>":  "123",
		"<@!456>": "456",
		" 789 ":   "789",
	} {
		got, ok := ParseUserID(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "<@abc>", "<@&123>", "someone"} {
		_, ok := ParseUserID(in)
		assert.False(t, ok, in)
	}
}

func TestParseRoleID(t *testing.T) {
	id, ok := ParseRoleID("<@&321>")
	assert.True(t, ok)
	assert.Equal(t, "321", id)

	_, ok = ParseRoleID("<@321>")
	assert.False(t, ok)
}

func TestSubcommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "config",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "permission-level",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "level", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(300)},
				{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "55"},
			},
		}},
	}

	name, opts, ok := Subcommand(data)
	assert.True(t, ok)
	assert.Equal(t, "permission-level", name)
	assert.Equal(t, int64(300), opts["level"].IntValue())
	id, ok := OptionID(opts["role"])
	assert.True(t, ok)
	assert.Equal(t, "55", id)

	_, ok = OptionID(opts["member"])
	assert.False(t, ok)
}

func TestActorIdentity(t *testing.T) {
	uid, roles := ActorIdentity(&discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "1"}, Roles: []string{"r"}},
	})
	assert.Equal(t, "1", uid)
	assert.Equal(t, []string{"r"}, roles)

	uid, roles = ActorIdentity(&discordgo.Interaction{User: &discordgo.User{ID: "2"}})
	assert.Equal(t, "2", uid)
	assert.Nil(t, roles)
}
