package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// MemberEditor applies role and nickname changes to guild members. It is
// the reconcile.RoleEditor implementation.
type MemberEditor struct {
	session *discordgo.Session
	guildID string
}

// NewMemberEditor creates a member editor for one guild.
func NewMemberEditor(session *discordgo.Session, guildID string) *MemberEditor {
	return &MemberEditor{session: session, guildID: guildID}
}

// SetMemberRoles replaces the member's full role set in a single edit,
// so observers never see a partially applied diff.
func (e *MemberEditor) SetMemberRoles(ctx context.Context, discordID string, roleIDs []string) error {
	_, err := e.session.GuildMemberEdit(e.guildID, discordID, &discordgo.GuildMemberParams{
		Roles: &roleIDs,
	}, discordgo.WithContext(ctx))
	return err
}

// SetNickname updates the member's guild nickname.
func (e *MemberEditor) SetNickname(ctx context.Context, discordID, nickname string) error {
	return e.session.GuildMemberNickname(e.guildID, discordID, nickname, discordgo.WithContext(ctx))
}
