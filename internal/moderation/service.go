// Package moderation persists warning records and event-attendance
// counters.
package moderation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrisonhq/garrison/internal/db"
	"github.com/garrisonhq/garrison/internal/db/sqlc"
)

// ErrWarningNotFound: removing a warning id that does not exist.
var ErrWarningNotFound = errors.New("moderation: warning not found")

// Warning is one recorded warning. IDs count up from 1 per
// (guild, member) pair.
type Warning struct {
	ID          int64
	DiscordID   string
	GuildID     string
	ModeratorID string
	Reason      string
	CreatedAt   time.Time
}

// Attendance is a member's event-attendance counter.
type Attendance struct {
	DiscordID string
	Count     int
}

// Service manages warnings and event attendance.
type Service struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a moderation service.
func NewService(log *slog.Logger, pool *pgxpool.Pool, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:    pool,
		queries: queries,
		logger:  log.With(slog.String("service", "moderation")),
	}
}

// Warn records a warning and returns it. The per-member sequence number
// is assigned inside a transaction so concurrent warns cannot collide.
func (s *Service) Warn(ctx context.Context, guildID, discordID, moderatorID, reason string) (Warning, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Warning{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.queries.WithTx(tx)

	next, err := qtx.NextWarningID(ctx, sqlc.NextWarningIDParams{
		GuildID:   guildID,
		DiscordID: discordID,
	})
	if err != nil {
		return Warning{}, err
	}
	row, err := qtx.CreateWarning(ctx, sqlc.CreateWarningParams{
		ID:          next,
		GuildID:     guildID,
		DiscordID:   discordID,
		ModeratorID: moderatorID,
		Reason:      reason,
	})
	if err != nil {
		return Warning{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Warning{}, err
	}

	s.logger.Info("warning recorded",
		slog.String("guild_id", guildID),
		slog.String("discord_id", discordID),
		slog.Int64("warning_id", row.ID),
	)
	return toWarning(row), nil
}

// RemoveWarning deletes one warning by its per-member id.
func (s *Service) RemoveWarning(ctx context.Context, guildID, discordID string, warningID int64) error {
	affected, err := s.queries.DeleteWarning(ctx, sqlc.DeleteWarningParams{
		GuildID:   guildID,
		DiscordID: discordID,
		ID:        warningID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWarningNotFound
	}
	return nil
}

// Warnings lists a member's warnings, oldest first.
func (s *Service) Warnings(ctx context.Context, guildID, discordID string) ([]Warning, error) {
	rows, err := s.queries.ListWarnings(ctx, sqlc.ListWarningsParams{
		GuildID:   guildID,
		DiscordID: discordID,
	})
	if err != nil {
		return nil, err
	}
	warnings := make([]Warning, 0, len(rows))
	for _, row := range rows {
		warnings = append(warnings, toWarning(row))
	}
	return warnings, nil
}

// LogEvent increments the attendance counter for each member mentioned
// in an event log.
func (s *Service) LogEvent(ctx context.Context, discordIDs []string) error {
	for _, id := range discordIDs {
		if err := s.queries.LogEventAttendance(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Attendance returns a member's attendance count (zero when never
// logged).
func (s *Service) Attendance(ctx context.Context, discordID string) (Attendance, error) {
	row, err := s.queries.GetEventAttendance(ctx, discordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Attendance{DiscordID: discordID}, nil
		}
		return Attendance{}, err
	}
	return Attendance{DiscordID: row.DiscordID, Count: int(row.Count)}, nil
}

// Leaderboard returns the top attendance counters.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]Attendance, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.queries.ListEventLeaderboard(ctx, int32(limit))
	if err != nil {
		return nil, err
	}
	board := make([]Attendance, 0, len(rows))
	for _, row := range rows {
		board = append(board, Attendance{DiscordID: row.DiscordID, Count: int(row.Count)})
	}
	return board, nil
}

func toWarning(row sqlc.Warning) Warning {
	return Warning{
		ID:          row.ID,
		DiscordID:   row.DiscordID,
		GuildID:     row.GuildID,
		ModeratorID: row.ModeratorID,
		Reason:      row.Reason,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
	}
}
