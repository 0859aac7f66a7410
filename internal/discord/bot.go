// Package discord is the command surface: it wires slash commands and
// message components to the verification, reconciliation, tracker, rank
// request, and moderation services.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/moderation"
	"github.com/garrisonhq/garrison/internal/rankrequest"
	"github.com/garrisonhq/garrison/internal/reconcile"
	"github.com/garrisonhq/garrison/internal/roblox"
	"github.com/garrisonhq/garrison/internal/tracker"
	"github.com/garrisonhq/garrison/internal/verification"
)

const interactionTimeout = 30 * time.Second

// Bot owns the Discord session and dispatches interactions to services.
type Bot struct {
	session      *discordgo.Session
	cfg          config.Config
	verification *verification.Service
	engine       *reconcile.Engine
	trackerStore tracker.Store
	rankRequests *rankrequest.Service
	moderation   *moderation.Service
	directory    *roblox.Client
	logger       *slog.Logger
}

// NewBot creates the bot over an authenticated (not yet opened) session.
func NewBot(
	log *slog.Logger,
	cfg config.Config,
	session *discordgo.Session,
	verificationService *verification.Service,
	engine *reconcile.Engine,
	trackerStore tracker.Store,
	rankRequests *rankrequest.Service,
	moderationService *moderation.Service,
	directory *roblox.Client,
) *Bot {
	return &Bot{
		session:      session,
		cfg:          cfg,
		verification: verificationService,
		engine:       engine,
		trackerStore: trackerStore,
		rankRequests: rankRequests,
		moderation:   moderationService,
		directory:    directory,
		logger:       log.With(slog.String("component", "discord")),
	}
}

// NewSession builds a discordgo session with the intents the bot needs.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentGuildMembers | discordgo.IntentsGuildMessages
	return session, nil
}

// Start opens the gateway connection and registers the guild's slash
// commands.
func (b *Bot) Start() error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("gateway ready", slog.String("user", r.User.Username))
	})
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	if _, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID,
		b.cfg.Discord.GuildID,
		commandDefinitions(),
	); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	b.logger.Info("commands registered", slog.String("guild_id", b.cfg.Discord.GuildID))
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

// Session exposes the underlying session for adapters (role editor,
// notifier).
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	handler, ok := b.commandHandlers()[data.Name]
	if !ok {
		b.logger.Warn("unknown command", slog.String("name", data.Name))
		return
	}
	if err := handler(ctx, i); err != nil {
		b.logger.Error("command failed",
			slog.String("name", data.Name),
			slog.Any("error", err),
		)
		b.respondError(i, "Something went wrong. Please try again later.")
	}
}
