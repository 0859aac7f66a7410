package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/garrisonhq/garrison/internal/reconcile"
	"github.com/garrisonhq/garrison/internal/roblox"
	"github.com/garrisonhq/garrison/internal/verification"
)

func (b *Bot) handleVerify(ctx context.Context, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	ref := opts["account"].StringValue()

	result, err := b.verification.Initiate(ctx, i.Member.User.ID, ref)
	if err != nil {
		if errors.Is(err, verification.ErrAccountNotFound) {
			b.respondError(i, fmt.Sprintf("No Roblox account matches `%s`.", ref))
			return nil
		}
		return err
	}

	account := result.Account.Name
	if account == "" {
		account = "#" + result.Challenge.RobloxID
	}
	var body strings.Builder
	if result.Resumed {
		fmt.Fprintf(&body, "You already have a pending verification for **%s**.\n\n", account)
	} else {
		fmt.Fprintf(&body, "Verification started for **%s**.\n\n", account)
	}
	fmt.Fprintf(&body, "Put this code in your profile's **About** section, then run `/confirm`:\n```\n%s\n```", result.Challenge.Code)
	b.respondEmbed(i, infoEmbed(body.String()), true)
	return nil
}

func (b *Bot) handleConfirm(ctx context.Context, i *discordgo.InteractionCreate) error {
	link, err := b.verification.Confirm(ctx, i.Member.User.ID)
	switch {
	case errors.Is(err, verification.ErrNoPendingChallenge):
		b.respondError(i, "You have no pending verification. Start one with `/verify`.")
		return nil
	case errors.Is(err, verification.ErrCodeNotFound):
		b.respondError(i, "The code is not in your profile yet. Save your profile and try again.")
		return nil
	case errors.Is(err, verification.ErrAlreadyLinked):
		b.respondError(i, "That account is already linked to you.")
		return nil
	case err != nil:
		return err
	}

	// Linking immediately triggers a role sync for the new account.
	member, err := b.guildMember(ctx, i.Member.User.ID)
	if err != nil {
		return err
	}
	if _, err := b.engine.Reconcile(ctx, member, link.RobloxID); err != nil {
		b.logger.Warn("post-verify reconcile failed",
			slog.String("discord_id", link.DiscordID),
			slog.Any("error", err),
		)
	}
	b.respondSuccess(i, fmt.Sprintf("Verified! Your Discord account is now linked to [%s](%s).",
		"#"+link.RobloxID, profileURLFor(link.RobloxID)))
	return nil
}

func (b *Bot) handleCancel(ctx context.Context, i *discordgo.InteractionCreate) error {
	if err := b.verification.Cancel(ctx, i.Member.User.ID); err != nil {
		return err
	}
	b.respondEmbed(i, infoEmbed("Pending verification cancelled."), true)
	return nil
}

func (b *Bot) handleUnverify(ctx context.Context, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options)
	robloxID := strings.TrimPrefix(opts["account"].StringValue(), "#")

	if err := b.verification.Unlink(ctx, i.Member.User.ID, robloxID); err != nil {
		return err
	}
	b.respondSuccess(i, fmt.Sprintf("Account `%s` unlinked.", robloxID))
	return nil
}

func (b *Bot) handleAccounts(ctx context.Context, i *discordgo.InteractionCreate) error {
	links, err := b.verification.Links(ctx, i.Member.User.ID)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		b.respondEmbed(i, infoEmbed("You have no linked Roblox accounts."), true)
		return nil
	}

	var body strings.Builder
	for _, link := range links {
		name := "#" + link.RobloxID
		if id, err := strconv.ParseInt(link.RobloxID, 10, 64); err == nil {
			if info, err := b.directory.UserInfo(ctx, id); err == nil {
				name = info.Name
			}
		}
		fmt.Fprintf(&body, "- [%s](%s) — linked <t:%d:R>\n", name, profileURLFor(link.RobloxID), link.VerifiedAt.Unix())
	}
	b.respondEmbed(i, infoEmbed(body.String()), true)
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, i *discordgo.InteractionCreate) error {
	targetID := i.Member.User.ID
	if opt, ok := optionMap(i.ApplicationCommandData().Options)["member"]; ok {
		targetID = opt.UserValue(nil).ID
	}

	member, err := b.guildMember(ctx, targetID)
	if err != nil {
		return err
	}
	result, err := b.engine.Reconcile(ctx, member, "")
	if err != nil {
		if errors.Is(err, reconcile.ErrNotVerified) {
			b.respondError(i, "That member has no linked Roblox account.")
			return nil
		}
		return err
	}

	if result.NicknameErr != nil {
		b.logger.Warn("nickname update failed",
			slog.String("discord_id", targetID),
			slog.Any("error", result.NicknameErr),
		)
	}
	if len(result.Plan.Granted) == 0 && len(result.Plan.Revoked) == 0 {
		b.respondEmbed(i, infoEmbed("Roles are already up to date."), true)
		return nil
	}
	b.respondSuccess(i, fmt.Sprintf("Roles updated: %d granted, %d revoked.",
		len(result.Plan.Granted), len(result.Plan.Revoked)))
	return nil
}

// guildMember loads the live member state the reconcile engine diffs
// against.
func (b *Bot) guildMember(ctx context.Context, discordID string) (reconcile.Member, error) {
	m, err := b.session.GuildMember(b.cfg.Discord.GuildID, discordID, discordgo.WithContext(ctx))
	if err != nil {
		return reconcile.Member{}, fmt.Errorf("fetch guild member: %w", err)
	}
	return reconcile.Member{
		DiscordID: discordID,
		Nickname:  m.Nick,
		RoleIDs:   m.Roles,
	}, nil
}

func profileURLFor(robloxID string) string {
	id, err := strconv.ParseInt(robloxID, 10, 64)
	if err != nil {
		return ""
	}
	return roblox.ProfileURL(id)
}
