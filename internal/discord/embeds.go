package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Embed accent colors.
const (
	colorGreen = 0x57F287
	colorRed   = 0xED4245
	colorBlue  = 0x5865F2
)

func successEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Description: description, Color: colorGreen}
}

func errorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Description: description, Color: colorRed}
}

func infoEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Description: description, Color: colorBlue}
}

func (b *Bot) respondEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.logger.Error("interaction respond failed", slog.Any("error", err))
	}
}

func (b *Bot) respondSuccess(i *discordgo.InteractionCreate, description string) {
	b.respondEmbed(i, successEmbed(description), false)
}

func (b *Bot) respondError(i *discordgo.InteractionCreate, description string) {
	b.respondEmbed(i, errorEmbed(description), true)
}

func (b *Bot) respondInfo(i *discordgo.InteractionCreate, description string) {
	b.respondEmbed(i, infoEmbed(description), false)
}
