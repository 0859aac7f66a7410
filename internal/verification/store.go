package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrisonhq/garrison/internal/db"
	"github.com/garrisonhq/garrison/internal/db/sqlc"
)

// PGStore is the PostgreSQL-backed Store. The primary key on
// verification_challenges.discord_id is the concurrency guard the
// protocol relies on.
type PGStore struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
}

// NewPGStore creates a PostgreSQL-backed verification store.
func NewPGStore(pool *pgxpool.Pool, queries *sqlc.Queries) *PGStore {
	return &PGStore{pool: pool, queries: queries}
}

var _ Store = (*PGStore)(nil)

// CreateChallenge inserts the challenge. On a concurrent insert for the
// same Discord id the existing row is returned with created=false.
func (s *PGStore) CreateChallenge(ctx context.Context, challenge Challenge) (Challenge, bool, error) {
	row, err := s.queries.CreateVerificationChallenge(ctx, sqlc.CreateVerificationChallengeParams{
		DiscordID: challenge.DiscordID,
		RobloxID:  challenge.RobloxID,
		Code:      challenge.Code,
	})
	if err == nil {
		return toChallenge(row), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Challenge{}, false, err
	}
	// ON CONFLICT DO NOTHING returned no row: another challenge already
	// holds the key. Hand back the winner.
	existing, err := s.GetChallenge(ctx, challenge.DiscordID)
	if err != nil {
		return Challenge{}, false, err
	}
	return existing, false, nil
}

func (s *PGStore) GetChallenge(ctx context.Context, discordID string) (Challenge, error) {
	row, err := s.queries.GetVerificationChallenge(ctx, discordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Challenge{}, ErrNoPendingChallenge
		}
		return Challenge{}, err
	}
	return toChallenge(row), nil
}

func (s *PGStore) DeleteChallenge(ctx context.Context, discordID string) error {
	_, err := s.queries.DeleteVerificationChallenge(ctx, discordID)
	return err
}

// CommitLink creates the identity link and removes the pending challenge
// in one transaction; the link exists only if both succeed.
func (s *PGStore) CommitLink(ctx context.Context, discordID, robloxID string) (Link, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Link{}, fmt.Errorf("begin commit link tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	qtx := s.queries.WithTx(tx)

	row, err := qtx.CreateIdentityLink(ctx, sqlc.CreateIdentityLinkParams{
		DiscordID: discordID,
		RobloxID:  robloxID,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Link{}, ErrAlreadyLinked
		}
		return Link{}, fmt.Errorf("create identity link: %w", err)
	}
	if _, err := qtx.DeleteVerificationChallenge(ctx, discordID); err != nil {
		return Link{}, fmt.Errorf("delete challenge: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Link{}, fmt.Errorf("commit link tx: %w", err)
	}
	return toLink(row), nil
}

func (s *PGStore) ListLinksByDiscordID(ctx context.Context, discordID string) ([]Link, error) {
	rows, err := s.queries.ListIdentityLinksByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}
	return toLinks(rows), nil
}

func (s *PGStore) ListLinksByRobloxID(ctx context.Context, robloxID string) ([]Link, error) {
	rows, err := s.queries.ListIdentityLinksByRobloxID(ctx, robloxID)
	if err != nil {
		return nil, err
	}
	return toLinks(rows), nil
}

func (s *PGStore) DeleteLink(ctx context.Context, discordID, robloxID string) error {
	_, err := s.queries.DeleteIdentityLink(ctx, sqlc.DeleteIdentityLinkParams{
		DiscordID: discordID,
		RobloxID:  robloxID,
	})
	return err
}

func toChallenge(row sqlc.VerificationChallenge) Challenge {
	return Challenge{
		DiscordID: row.DiscordID,
		RobloxID:  row.RobloxID,
		Code:      row.Code,
		CreatedAt: db.TimeFromPg(row.CreatedAt),
	}
}

func toLink(row sqlc.IdentityLink) Link {
	return Link{
		DiscordID:  row.DiscordID,
		RobloxID:   row.RobloxID,
		VerifiedAt: db.TimeFromPg(row.VerifiedAt),
	}
}

func toLinks(rows []sqlc.IdentityLink) []Link {
	links := make([]Link, 0, len(rows))
	for _, row := range rows {
		links = append(links, toLink(row))
	}
	return links
}
