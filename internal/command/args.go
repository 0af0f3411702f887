package command

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// SplitPrefixed parses a prefixed message into a lowercased command name,
// its arguments and the raw argument text. ok is false when content does not
// start with prefix or carries no command token.
func SplitPrefixed(content, prefix string) (name string, args []string, raw string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, "", false
	}
	rest := strings.TrimSpace(content[len(prefix):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, "", false
	}
	raw = strings.TrimSpace(rest[len(fields[0]):])
	return strings.ToLower(fields[0]), fields[1:], raw, true
}

// ParseUserID accepts a user mention (<@id> or <@!id>) or a raw snowflake.
func ParseUserID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(s[2:len(s)-1], "!")
	}
	return s, isSnowflake(s)
}

// ParseRoleID accepts a role mention (<@&id>) or a raw snowflake.
func ParseRoleID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@&") && strings.HasSuffix(s, ">") {
		s = s[3 : len(s)-1]
	}
	return s, isSnowflake(s)
}

func isSnowflake(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// OptionMap indexes interaction options by name.
func OptionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// Subcommand returns the first subcommand option and its options indexed by
// name. ok is false when the interaction carries no subcommand.
func Subcommand(data discordgo.ApplicationCommandInteractionData) (name string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, ok bool) {
	for _, o := range data.Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, OptionMap(o.Options), true
		}
	}
	return "", nil, false
}

// OptionID returns the snowflake carried by a user, role or mentionable
// option without resolving it through the session.
func OptionID(o *discordgo.ApplicationCommandInteractionDataOption) (string, bool) {
	if o == nil {
		return "", false
	}
	id, ok := o.Value.(string)
	return id, ok && id != ""
}

// ActorIdentity returns the invoking user and their roles from an interaction.
func ActorIdentity(i *discordgo.Interaction) (userID string, roleIDs []string) {
	if i.Member != nil {
		roleIDs = i.Member.Roles
		if i.Member.User != nil {
			userID = i.Member.User.ID
		}
	}
	if userID == "" && i.User != nil {
		userID = i.User.ID
	}
	return userID, roleIDs
}
