package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

type commandHandler func(ctx context.Context, i *discordgo.InteractionCreate) error

func (b *Bot) commandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		"verify":       b.handleVerify,
		"confirm":      b.handleConfirm,
		"cancel":       b.handleCancel,
		"unverify":     b.handleUnverify,
		"accounts":     b.handleAccounts,
		"update":       b.handleUpdate,
		"tracker":      b.handleTracker,
		"rank-request": b.handleRankRequest,
		"warning":      b.handleWarning,
		"kick":         b.handleKick,
		"ban":          b.handleBan,
		"event":        b.handleEvent,
	}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	adminPerm := int64(discordgo.PermissionAdministrator)
	kickPerm := int64(discordgo.PermissionKickMembers)
	banPerm := int64(discordgo.PermissionBanMembers)
	modPerm := int64(discordgo.PermissionModerateMembers)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "verify",
			Description: "Link your Roblox account.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "account",
					Description: "Your Roblox username, or #<id> for a numeric id",
					Required:    true,
				},
			},
		},
		{
			Name:        "confirm",
			Description: "Confirm verification after placing the code in your profile.",
		},
		{
			Name:        "cancel",
			Description: "Cancel the pending verification.",
		},
		{
			Name:        "unverify",
			Description: "Remove a linked Roblox account.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "account",
					Description: "The Roblox account id to unlink",
					Required:    true,
				},
			},
		},
		{
			Name:        "accounts",
			Description: "List your linked Roblox accounts.",
		},
		{
			Name:        "update",
			Description: "Sync roles and nickname from Roblox group rank.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The member to update (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:                     "tracker",
			Description:              "Manage the presence tracker.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a Roblox account to the tracker",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "account",
							Description: "Roblox username or #<id>",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Why the account is tracked",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a Roblox account from the tracker",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "account",
							Description: "Roblox username or #<id>",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List tracked accounts",
				},
			},
		},
		{
			Name:        "rank-request",
			Description: "Request a promotion to a configured rank.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "rank",
					Description: "The rank role to request",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "proof",
					Description: "Proof of the required points",
					Required:    true,
				},
			},
		},
		{
			Name:                     "warning",
			Description:              "Manage member warnings.",
			DefaultMemberPermissions: &modPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Warn a member",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "member",
							Description: "The member to warn",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "The reason for the warning",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a warning",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "member",
							Description: "The warned member",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "The warning id",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List a member's warnings",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "member",
							Description: "The member",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:                     "kick",
			Description:              "Kick a member.",
			DefaultMemberPermissions: &kickPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The member to kick",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "The reason",
					Required:    false,
				},
			},
		},
		{
			Name:                     "ban",
			Description:              "Ban a member.",
			DefaultMemberPermissions: &banPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The member to ban",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "The reason",
					Required:    false,
				},
			},
		},
		{
			Name:        "event",
			Description: "Event attendance.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "log",
					Description: "Log attendance for everyone mentioned in a message",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message_link",
							Description: "Link to the attendance message",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "count",
					Description: "Show a member's attendance count",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "member",
							Description: "The member (defaults to you)",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show the attendance leaderboard",
				},
			},
		},
	}
}

// optionMap flattens options by name for direct access.
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
