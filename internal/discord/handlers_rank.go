package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/garrisonhq/garrison/internal/rankrequest"
)

// Component custom-id prefix for rank request decisions. The record id
// travels in the custom id so a decision never depends on message text.
const rankRequestComponent = "rankreq"

func (b *Bot) handleRankRequest(ctx context.Context, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	opts := optionMap(data.Options)
	roleID := opts["rank"].RoleValue(nil, "").ID

	attachmentID, _ := opts["proof"].Value.(string)
	attachment, ok := data.Resolved.Attachments[attachmentID]
	if !ok {
		b.respondError(i, "The proof attachment could not be read.")
		return nil
	}

	request, err := b.rankRequests.Create(ctx, i.Member.User.ID, roleID, attachment.URL, i.Member.Roles)
	switch {
	case errors.Is(err, rankrequest.ErrNotVerified):
		b.respondError(i, "You need a linked Roblox account first. Start with `/verify`.")
		return nil
	case errors.Is(err, rankrequest.ErrNotRequestable):
		b.respondError(i, "That role is not a requestable rank.")
		return nil
	case errors.Is(err, rankrequest.ErrAlreadyHeld):
		b.respondError(i, "You already hold that rank.")
		return nil
	case errors.Is(err, rankrequest.ErrNotAnUpgrade):
		b.respondError(i, "You can only request ranks above your current one.")
		return nil
	case err != nil:
		return err
	}

	if err := b.postRankRequest(ctx, request); err != nil {
		return fmt.Errorf("post rank request: %w", err)
	}
	b.respondEmbed(i, successEmbed("Your rank request has been submitted for review."), true)
	return nil
}

func (b *Bot) postRankRequest(ctx context.Context, request rankrequest.Request) error {
	embed := &discordgo.MessageEmbed{
		Title: "Rank request",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Member", Value: fmt.Sprintf("<@%s>", request.DiscordID), Inline: true},
			{Name: "Roblox", Value: profileLink(request.RobloxID), Inline: true},
			{Name: "Requested rank", Value: fmt.Sprintf("<@&%s>", request.RoleID), Inline: true},
		},
		Image:  &discordgo.MessageEmbedImage{URL: request.ProofURL},
		Footer: &discordgo.MessageEmbedFooter{Text: request.ID},
	}
	_, err := b.session.ChannelMessageSendComplex(b.cfg.Discord.RankRequestChannel, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Accept",
						Style:    discordgo.SuccessButton,
						CustomID: strings.Join([]string{rankRequestComponent, "accept", request.ID}, ":"),
					},
					discordgo.Button{
						Label:    "Deny",
						Style:    discordgo.DangerButton,
						CustomID: strings.Join([]string{rankRequestComponent, "deny", request.ID}, ":"),
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	return err
}

func (b *Bot) handleComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	parts := strings.Split(data.CustomID, ":")
	if len(parts) != 3 || parts[0] != rankRequestComponent {
		b.logger.Warn("unknown component", slog.String("custom_id", data.CustomID))
		return
	}
	accept := parts[1] == "accept"

	request, change, err := b.rankRequests.Decide(ctx, parts[2], i.Member.User.ID, accept)
	switch {
	case errors.Is(err, rankrequest.ErrAlreadyDecided):
		b.respondError(i, "This request has already been decided.")
		return
	case errors.Is(err, rankrequest.ErrNotFound):
		b.respondError(i, "This request no longer exists.")
		return
	case err != nil:
		b.logger.Error("decide rank request failed", slog.String("request_id", parts[2]), slog.Any("error", err))
		b.respondError(i, "Something went wrong. Please try again later.")
		return
	}

	if accept {
		if err := b.applyRoleChange(ctx, request.DiscordID, change); err != nil {
			b.logger.Error("apply rank roles failed",
				slog.String("discord_id", request.DiscordID),
				slog.Any("error", err),
			)
		}
	}
	b.concludeRankRequest(i, request)
}

// concludeRankRequest rewrites the review message with the decision and
// strips the buttons.
func (b *Bot) concludeRankRequest(i *discordgo.InteractionCreate, request rankrequest.Request) {
	verdict := fmt.Sprintf("Denied by <@%s>", request.DecidedBy)
	color := colorRed
	if request.Status == rankrequest.StatusAccepted {
		verdict = fmt.Sprintf("Accepted by <@%s>", request.DecidedBy)
		color = colorGreen
	}

	var embed *discordgo.MessageEmbed
	if len(i.Message.Embeds) > 0 {
		embed = i.Message.Embeds[0]
	} else {
		embed = &discordgo.MessageEmbed{Title: "Rank request"}
	}
	embed.Color = color
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Decision", Value: verdict})

	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		b.logger.Error("update review message failed", slog.Any("error", err))
	}
}

// applyRoleChange edits the member's role set in one call, the same way
// the reconcile editor does.
func (b *Bot) applyRoleChange(ctx context.Context, discordID string, change rankrequest.RoleChange) error {
	m, err := b.session.GuildMember(b.cfg.Discord.GuildID, discordID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("fetch guild member: %w", err)
	}

	removed := make(map[string]bool, len(change.Remove))
	for _, id := range change.Remove {
		removed[id] = true
	}
	next := make([]string, 0, len(m.Roles)+len(change.Add))
	seen := make(map[string]bool, len(m.Roles)+len(change.Add))
	for _, id := range m.Roles {
		if !removed[id] && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, id := range change.Add {
		if id != "" && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}

	_, err = b.session.GuildMemberEdit(b.cfg.Discord.GuildID, discordID,
		&discordgo.GuildMemberParams{Roles: &next}, discordgo.WithContext(ctx))
	return err
}
