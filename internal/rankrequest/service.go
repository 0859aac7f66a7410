// Package rankrequest manages persisted rank promotion requests with an
// explicit accept/deny lifecycle. The reviewed record is always looked
// up by id, never recovered from rendered message text.
package rankrequest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/db"
	"github.com/garrisonhq/garrison/internal/db/sqlc"
	"github.com/garrisonhq/garrison/internal/verification"
)

// Request states.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDenied   = "denied"
)

// Service-level error kinds.
var (
	ErrNotVerified    = errors.New("rankrequest: member is not verified")
	ErrNotRequestable = errors.New("rankrequest: role is not a requestable rank")
	ErrAlreadyHeld    = errors.New("rankrequest: member already holds the rank")
	ErrNotAnUpgrade   = errors.New("rankrequest: requested rank is not above the current one")
	ErrNotFound       = errors.New("rankrequest: request not found")
	ErrAlreadyDecided = errors.New("rankrequest: request already decided")
)

// Request is one persisted rank request.
type Request struct {
	ID        string
	DiscordID string
	RobloxID  string
	RoleID    string
	ProofURL  string
	Status    string
	DecidedBy string
	CreatedAt time.Time
	DecidedAt time.Time
}

// RoleChange is the role mutation an accepted request entails; the
// command layer applies it.
type RoleChange struct {
	Add    []string
	Remove []string
}

// LinkReader resolves a member's confirmed identity links.
type LinkReader interface {
	Links(ctx context.Context, discordID string) ([]verification.Link, error)
}

// Service validates, persists, and decides rank requests.
type Service struct {
	cfg     config.Config
	queries *sqlc.Queries
	links   LinkReader
	logger  *slog.Logger
}

// NewService creates a rank request service.
func NewService(log *slog.Logger, cfg config.Config, queries *sqlc.Queries, links LinkReader) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:     cfg,
		queries: queries,
		links:   links,
		logger:  log.With(slog.String("service", "rankrequest")),
	}
}

// Create validates and persists a rank request. The member must be
// verified; the role must be in the rank table; the request must be a
// strict upgrade over the highest rank the member currently holds.
// currentRoles is the member's live Discord role set.
func (s *Service) Create(ctx context.Context, discordID, roleID, proofURL string, currentRoles []string) (Request, error) {
	links, err := s.links.Links(ctx, discordID)
	if err != nil {
		return Request{}, err
	}
	if len(links) == 0 {
		return Request{}, ErrNotVerified
	}

	requested, ok := rankIndex(s.cfg, roleID)
	if !ok {
		return Request{}, ErrNotRequestable
	}
	if held, ok := highestHeldRank(s.cfg, currentRoles); ok {
		if held == requested {
			return Request{}, ErrAlreadyHeld
		}
		if held > requested {
			return Request{}, ErrNotAnUpgrade
		}
	}

	row, err := s.queries.CreateRankRequest(ctx, sqlc.CreateRankRequestParams{
		DiscordID: discordID,
		RobloxID:  links[0].RobloxID,
		RoleID:    roleID,
		ProofUrl:  proofURL,
	})
	if err != nil {
		return Request{}, err
	}
	s.logger.Info("rank request created",
		slog.String("request_id", row.ID.String()),
		slog.String("discord_id", discordID),
		slog.String("role_id", roleID),
	)
	return toRequest(row), nil
}

// Get returns a request by id.
func (s *Service) Get(ctx context.Context, requestID string) (Request, error) {
	pgID, err := db.ParseUUID(requestID)
	if err != nil {
		return Request{}, ErrNotFound
	}
	row, err := s.queries.GetRankRequestByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	return toRequest(row), nil
}

// ListPending returns all undecided requests, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]Request, error) {
	rows, err := s.queries.ListRankRequestsByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	requests := make([]Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, toRequest(row))
	}
	return requests, nil
}

// Decide transitions a pending request to accepted or denied, exactly
// once. On accept it also returns the role change to apply: grant the
// requested rank plus member and low-tier category, revoke every other
// configured rank role and the outsider placeholder.
func (s *Service) Decide(ctx context.Context, requestID, moderatorID string, accept bool) (Request, RoleChange, error) {
	pgID, err := db.ParseUUID(requestID)
	if err != nil {
		return Request{}, RoleChange{}, ErrNotFound
	}

	status := StatusDenied
	if accept {
		status = StatusAccepted
	}
	row, err := s.queries.DecideRankRequest(ctx, sqlc.DecideRankRequestParams{
		ID:        pgID,
		Status:    status,
		DecidedBy: db.PgText(moderatorID),
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return Request{}, RoleChange{}, err
		}
		// The guarded update matched nothing: either the id is unknown
		// or the request was already decided.
		if _, getErr := s.queries.GetRankRequestByID(ctx, pgID); getErr != nil {
			return Request{}, RoleChange{}, ErrNotFound
		}
		return Request{}, RoleChange{}, ErrAlreadyDecided
	}

	request := toRequest(row)
	s.logger.Info("rank request decided",
		slog.String("request_id", request.ID),
		slog.String("status", request.Status),
		slog.String("moderator_id", moderatorID),
	)
	if !accept {
		return request, RoleChange{}, nil
	}
	return request, s.acceptChange(request.RoleID), nil
}

func (s *Service) acceptChange(roleID string) RoleChange {
	change := RoleChange{
		Add:    []string{roleID, s.cfg.Roles.Member, s.cfg.Roles.LowCategory},
		Remove: []string{s.cfg.Roles.Outsider},
	}
	for _, rank := range s.cfg.Ranks {
		if rank.RoleID != roleID {
			change.Remove = append(change.Remove, rank.RoleID)
		}
	}
	return change
}

// rankIndex returns the position of roleID in the configured rank table
// (ordered lowest to highest).
func rankIndex(cfg config.Config, roleID string) (int, bool) {
	for i, rank := range cfg.Ranks {
		if rank.RoleID == roleID {
			return i, true
		}
	}
	return 0, false
}

// highestHeldRank returns the highest rank-table position present in the
// member's current roles.
func highestHeldRank(cfg config.Config, currentRoles []string) (int, bool) {
	best, found := 0, false
	for _, role := range currentRoles {
		if i, ok := rankIndex(cfg, role); ok && (!found || i > best) {
			best, found = i, true
		}
	}
	return best, found
}

func toRequest(row sqlc.RankRequest) Request {
	return Request{
		ID:        row.ID.String(),
		DiscordID: row.DiscordID,
		RobloxID:  row.RobloxID,
		RoleID:    row.RoleID,
		ProofURL:  row.ProofUrl,
		Status:    row.Status,
		DecidedBy: db.TextToString(row.DecidedBy),
		CreatedAt: db.TimeFromPg(row.CreatedAt),
		DecidedAt: db.TimeFromPg(row.DecidedAt),
	}
}
