// Package tracker maintains the presence watch-list and announces
// activity transitions for the accounts on it.
package tracker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/garrisonhq/garrison/internal/db"
	"github.com/garrisonhq/garrison/internal/db/sqlc"
)

// Store persists watch-list entries, keyed by Roblox account id.
type Store interface {
	Create(ctx context.Context, account Account) (Account, error)
	Get(ctx context.Context, robloxID string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	Delete(ctx context.Context, robloxID string) error
	SetPosted(ctx context.Context, robloxID string, posted bool) error
}

// PGStore is the PostgreSQL-backed Store.
type PGStore struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewPGStore creates a PostgreSQL-backed tracker store.
func NewPGStore(log *slog.Logger, queries *sqlc.Queries) *PGStore {
	if log == nil {
		log = slog.Default()
	}
	return &PGStore{
		queries: queries,
		logger:  log.With(slog.String("service", "tracker")),
	}
}

var _ Store = (*PGStore)(nil)

// Create adds a watch-list entry. Returns ErrAlreadyTracked when the
// account is already on the list.
func (s *PGStore) Create(ctx context.Context, account Account) (Account, error) {
	row, err := s.queries.CreateTrackedAccount(ctx, sqlc.CreateTrackedAccountParams{
		RobloxID:    account.RobloxID,
		ModeratorID: account.ModeratorID,
		Reason:      account.Reason,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Account{}, ErrAlreadyTracked
		}
		return Account{}, err
	}
	s.logger.Info("account tracked",
		slog.String("roblox_id", account.RobloxID),
		slog.String("moderator_id", account.ModeratorID),
	)
	return toAccount(row), nil
}

func (s *PGStore) Get(ctx context.Context, robloxID string) (Account, error) {
	row, err := s.queries.GetTrackedAccount(ctx, robloxID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotTracked
		}
		return Account{}, err
	}
	return toAccount(row), nil
}

func (s *PGStore) List(ctx context.Context) ([]Account, error) {
	rows, err := s.queries.ListTrackedAccounts(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, toAccount(row))
	}
	return accounts, nil
}

// Delete removes a watch-list entry. Returns ErrNotTracked when the
// account was not on the list.
func (s *PGStore) Delete(ctx context.Context, robloxID string) error {
	affected, err := s.queries.DeleteTrackedAccount(ctx, robloxID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotTracked
	}
	s.logger.Info("account untracked", slog.String("roblox_id", robloxID))
	return nil
}

func (s *PGStore) SetPosted(ctx context.Context, robloxID string, posted bool) error {
	return s.queries.SetTrackedAccountPosted(ctx, sqlc.SetTrackedAccountPostedParams{
		RobloxID: robloxID,
		Posted:   posted,
	})
}

func toAccount(row sqlc.TrackedAccount) Account {
	return Account{
		RobloxID:    row.RobloxID,
		Posted:      row.Posted,
		ModeratorID: row.ModeratorID,
		Reason:      row.Reason,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
	}
}
