package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/garrisonhq/garrison/internal/tracker"
)

// ChannelNotifier announces tracker events to one configured channel.
type ChannelNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewChannelNotifier creates a tracker notifier posting to channelID.
func NewChannelNotifier(session *discordgo.Session, channelID string) *ChannelNotifier {
	return &ChannelNotifier{session: session, channelID: channelID}
}

// Announce renders the transition event as an embed and posts it.
func (n *ChannelNotifier) Announce(ctx context.Context, event tracker.Event) error {
	var description string
	color := colorGreen
	switch event.Kind {
	case tracker.EventEntered:
		description = fmt.Sprintf("[%s](%s) has entered the monitored place.", event.DisplayName, event.ProfileURL)
	case tracker.EventUnknownActivity:
		description = fmt.Sprintf("[%s](%s) is playing a game. Their joins are off.", event.DisplayName, event.ProfileURL)
	case tracker.EventLeft:
		description = fmt.Sprintf("[%s](%s) has left the monitored place.", event.DisplayName, event.ProfileURL)
		color = colorRed
	default:
		return fmt.Errorf("unknown tracker event kind %q", event.Kind)
	}

	embed := &discordgo.MessageEmbed{
		Description: description,
		Color:       color,
	}
	if event.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: event.AvatarURL}
	}
	if event.LastLocation != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: event.LastLocation}
	}

	_, err := n.session.ChannelMessageSendEmbed(n.channelID, embed, discordgo.WithContext(ctx))
	return err
}

var _ tracker.Notifier = (*ChannelNotifier)(nil)
