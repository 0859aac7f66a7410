package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/garrisonhq/garrison/internal/moderation"
)

func (b *Bot) handleWarning(ctx context.Context, i *discordgo.InteractionCreate) error {
	sub := i.ApplicationCommandData().Options[0]
	opts := optionMap(sub.Options)
	guildID := i.GuildID

	switch sub.Name {
	case "add":
		target := opts["member"].UserValue(nil).ID
		reason := ""
		if opt, ok := opts["reason"]; ok {
			reason = opt.StringValue()
		}
		warning, err := b.moderation.Warn(ctx, guildID, target, i.Member.User.ID, reason)
		if err != nil {
			return err
		}
		b.respondSuccess(i, fmt.Sprintf("<@%s> has been warned (warning #%d).", target, warning.ID))
		return nil

	case "remove":
		target := opts["member"].UserValue(nil).ID
		warningID := opts["id"].IntValue()
		if err := b.moderation.RemoveWarning(ctx, guildID, target, warningID); err != nil {
			if errors.Is(err, moderation.ErrWarningNotFound) {
				b.respondError(i, fmt.Sprintf("<@%s> has no warning #%d.", target, warningID))
				return nil
			}
			return err
		}
		b.respondSuccess(i, fmt.Sprintf("Warning #%d removed from <@%s>.", warningID, target))
		return nil

	case "list":
		target := opts["member"].UserValue(nil).ID
		warnings, err := b.moderation.Warnings(ctx, guildID, target)
		if err != nil {
			return err
		}
		if len(warnings) == 0 {
			b.respondEmbed(i, infoEmbed(fmt.Sprintf("<@%s> has no warnings.", target)), true)
			return nil
		}
		var body strings.Builder
		for _, w := range warnings {
			reason := w.Reason
			if reason == "" {
				reason = "no reason given"
			}
			fmt.Fprintf(&body, "**#%d** — %s (by <@%s>, <t:%d:R>)\n", w.ID, reason, w.ModeratorID, w.CreatedAt.Unix())
		}
		b.respondEmbed(i, infoEmbed(body.String()), true)
		return nil

	default:
		return fmt.Errorf("unknown warning subcommand %q", sub.Name)
	}
}

func (b *Bot) handleKick(ctx context.Context, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	target := opts["member"].UserValue(nil).ID
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := b.session.GuildMemberDeleteWithReason(i.GuildID, target, reason, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("kick member: %w", err)
	}
	b.respondSuccess(i, fmt.Sprintf("<@%s> has been kicked.", target))
	return nil
}

func (b *Bot) handleBan(ctx context.Context, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	target := opts["member"].UserValue(nil).ID
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := b.session.GuildBanCreateWithReason(i.GuildID, target, reason, 0, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("ban member: %w", err)
	}
	b.respondSuccess(i, fmt.Sprintf("<@%s> has been banned.", target))
	return nil
}

func (b *Bot) handleEvent(ctx context.Context, i *discordgo.InteractionCreate) error {
	sub := i.ApplicationCommandData().Options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "log":
		channelID, messageID, err := parseMessageLink(opts["message_link"].StringValue())
		if err != nil {
			b.respondError(i, "That does not look like a message link.")
			return nil
		}
		message, err := b.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("fetch attendance message: %w", err)
		}
		if len(message.Mentions) == 0 {
			b.respondError(i, "That message mentions nobody.")
			return nil
		}
		ids := make([]string, 0, len(message.Mentions))
		for _, user := range message.Mentions {
			ids = append(ids, user.ID)
		}
		if err := b.moderation.LogEvent(ctx, ids); err != nil {
			return err
		}
		b.respondSuccess(i, fmt.Sprintf("Attendance logged for %d members.", len(ids)))
		return nil

	case "count":
		target := i.Member.User.ID
		if opt, ok := opts["member"]; ok {
			target = opt.UserValue(nil).ID
		}
		attendance, err := b.moderation.Attendance(ctx, target)
		if err != nil {
			return err
		}
		b.respondInfo(i, fmt.Sprintf("<@%s> has attended **%d** events.", target, attendance.Count))
		return nil

	case "leaderboard":
		entries, err := b.moderation.Leaderboard(ctx, 10)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			b.respondEmbed(i, infoEmbed("No events have been logged yet."), true)
			return nil
		}
		var body strings.Builder
		for n, entry := range entries {
			fmt.Fprintf(&body, "%d. <@%s> — %d\n", n+1, entry.DiscordID, entry.Count)
		}
		b.respondEmbed(i, &discordgo.MessageEmbed{
			Title:       "Event attendance",
			Description: body.String(),
			Color:       colorBlue,
		}, false)
		return nil

	default:
		return fmt.Errorf("unknown event subcommand %q", sub.Name)
	}
}

// parseMessageLink extracts channel and message ids from a
// https://discord.com/channels/<guild>/<channel>/<message> link.
func parseMessageLink(link string) (channelID, messageID string, err error) {
	trimmed := strings.TrimSuffix(link, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("malformed message link %q", link)
	}
	channelID = parts[len(parts)-2]
	messageID = parts[len(parts)-1]
	if !strings.Contains(trimmed, "/channels/") || channelID == "" || messageID == "" {
		return "", "", fmt.Errorf("malformed message link %q", link)
	}
	return channelID, messageID, nil
}
