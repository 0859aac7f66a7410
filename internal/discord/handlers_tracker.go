package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/garrisonhq/garrison/internal/roblox"
	"github.com/garrisonhq/garrison/internal/tracker"
)

func (b *Bot) handleTracker(ctx context.Context, i *discordgo.InteractionCreate) error {
	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "add":
		return b.handleTrackerAdd(ctx, i, sub)
	case "remove":
		return b.handleTrackerRemove(ctx, i, sub)
	case "list":
		return b.handleTrackerList(ctx, i)
	default:
		return fmt.Errorf("unknown tracker subcommand %q", sub.Name)
	}
}

func (b *Bot) handleTrackerAdd(ctx context.Context, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	opts := optionMap(sub.Options)
	ref := opts["account"].StringValue()
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	user, err := b.directory.ResolveAccount(ctx, ref)
	if err != nil {
		if errors.Is(err, roblox.ErrNotFound) {
			b.respondError(i, fmt.Sprintf("No Roblox account matches `%s`.", ref))
			return nil
		}
		return err
	}

	account := tracker.Account{
		RobloxID:    strconv.FormatInt(user.ID, 10),
		ModeratorID: i.Member.User.ID,
		Reason:      reason,
	}
	if _, err := b.trackerStore.Create(ctx, account); err != nil {
		if errors.Is(err, tracker.ErrAlreadyTracked) {
			b.respondError(i, fmt.Sprintf("**%s** is already being tracked.", user.Name))
			return nil
		}
		return err
	}
	b.respondSuccess(i, fmt.Sprintf("Now tracking [%s](%s).", user.Name, roblox.ProfileURL(user.ID)))
	return nil
}

func (b *Bot) handleTrackerRemove(ctx context.Context, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	ref := optionMap(sub.Options)["account"].StringValue()

	user, err := b.directory.ResolveAccount(ctx, ref)
	if err != nil {
		if errors.Is(err, roblox.ErrNotFound) {
			b.respondError(i, fmt.Sprintf("No Roblox account matches `%s`.", ref))
			return nil
		}
		return err
	}

	if err := b.trackerStore.Delete(ctx, strconv.FormatInt(user.ID, 10)); err != nil {
		if errors.Is(err, tracker.ErrNotTracked) {
			b.respondError(i, fmt.Sprintf("**%s** is not being tracked.", user.Name))
			return nil
		}
		return err
	}
	b.respondSuccess(i, fmt.Sprintf("Stopped tracking **%s**.", user.Name))
	return nil
}

func (b *Bot) handleTrackerList(ctx context.Context, i *discordgo.InteractionCreate) error {
	accounts, err := b.trackerStore.List(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		b.respondEmbed(i, infoEmbed("No accounts are being tracked."), true)
		return nil
	}

	var body strings.Builder
	for _, account := range accounts {
		fmt.Fprintf(&body, "- %s — added by <@%s> <t:%d:R>",
			profileLink(account.RobloxID), account.ModeratorID, account.CreatedAt.Unix())
		if account.Reason != "" {
			fmt.Fprintf(&body, " (%s)", account.Reason)
		}
		body.WriteString("\n")
	}
	b.respondEmbed(i, infoEmbed(body.String()), true)
	return nil
}

func profileLink(robloxID string) string {
	url := profileURLFor(robloxID)
	if url == "" {
		return "`" + robloxID + "`"
	}
	return fmt.Sprintf("[#%s](%s)", robloxID, url)
}
