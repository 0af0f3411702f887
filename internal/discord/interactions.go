package discord

import (
	"context"

	"kiwi-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

// responder implements command.Responder over a live session so commands
// never import the discord package.
type responder struct {
	s *discordgo.Session
}

var _ command.Responder = responder{}

// RespondEphemeral sends an ephemeral message response to an interaction.
func (r responder) RespondEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error {
	return r.s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			Flags:           discordgo.MessageFlagsEphemeral,
			AllowedMentions: noMentions(),
		},
	}, discordgo.WithContext(ctx))
}

// Reply answers m in its channel as a message reply.
func (r responder) Reply(ctx context.Context, m *discordgo.Message, content string) error {
	_, err := r.s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:         content,
		Reference:       m.Reference(),
		AllowedMentions: noMentions(),
	}, discordgo.WithContext(ctx))
	return err
}

// noMentions keeps listed users and roles from being pinged.
func noMentions() *discordgo.MessageAllowedMentions {
	return &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}
}
