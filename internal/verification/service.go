// Package verification implements the account-verification protocol:
// challenge issuance, code-in-profile proof checking, and identity links.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/garrisonhq/garrison/internal/roblox"
)

// Directory is the read-only slice of the Roblox client the protocol
// consults.
type Directory interface {
	ResolveAccount(ctx context.Context, ref string) (roblox.User, error)
	UserInfo(ctx context.Context, id int64) (roblox.UserInfo, error)
}

// Store persists challenges and links. CreateChallenge must be atomic
// under concurrent calls for the same Discord id: the first write wins
// and later writers receive the stored row with created=false.
type Store interface {
	CreateChallenge(ctx context.Context, challenge Challenge) (stored Challenge, created bool, err error)
	GetChallenge(ctx context.Context, discordID string) (Challenge, error)
	DeleteChallenge(ctx context.Context, discordID string) error
	// CommitLink creates the identity link and deletes the pending
	// challenge as one transaction.
	CommitLink(ctx context.Context, discordID, robloxID string) (Link, error)
	ListLinksByDiscordID(ctx context.Context, discordID string) ([]Link, error)
	ListLinksByRobloxID(ctx context.Context, robloxID string) ([]Link, error)
	DeleteLink(ctx context.Context, discordID, robloxID string) error
}

// Service orchestrates the verification state machine per Discord account:
// NoLink -> Pending -> Linked, with Pending -> NoLink on cancel.
type Service struct {
	store     Store
	directory Directory
	logger    *slog.Logger
}

// NewService creates a verification service.
func NewService(log *slog.Logger, store Store, directory Directory) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:     store,
		directory: directory,
		logger:    log.With(slog.String("service", "verification")),
	}
}

// Initiate starts (or resumes) verification of discordID against the
// account named by ref ("#<id>" or an exact username). When a challenge
// is already pending for discordID it is returned as-is with
// Resumed=true; ref is ignored in that case.
func (s *Service) Initiate(ctx context.Context, discordID, ref string) (ChallengeResult, error) {
	existing, err := s.store.GetChallenge(ctx, discordID)
	switch {
	case err == nil:
		return s.resumed(ctx, existing)
	case errors.Is(err, ErrNoPendingChallenge):
	default:
		return ChallengeResult{}, err
	}

	account, err := s.directory.ResolveAccount(ctx, ref)
	if err != nil {
		if errors.Is(err, roblox.ErrNotFound) {
			return ChallengeResult{}, ErrAccountNotFound
		}
		return ChallengeResult{}, err
	}

	challenge := Challenge{
		DiscordID: discordID,
		RobloxID:  strconv.FormatInt(account.ID, 10),
		Code:      generateCode(),
	}
	stored, created, err := s.store.CreateChallenge(ctx, challenge)
	if err != nil {
		return ChallengeResult{}, fmt.Errorf("create challenge: %w", err)
	}
	if !created {
		// Lost the race to a concurrent initiate; the stored row wins.
		return s.resumed(ctx, stored)
	}

	s.logger.Info("challenge issued",
		slog.String("discord_id", discordID),
		slog.String("roblox_id", stored.RobloxID),
	)
	return ChallengeResult{Challenge: stored, Account: account}, nil
}

// Confirm checks the pending challenge's code against the candidate
// account's public profile description. On a verbatim match the link is
// committed and the challenge removed atomically; on a miss the
// challenge stays pending so the user can edit their profile and retry.
func (s *Service) Confirm(ctx context.Context, discordID string) (Link, error) {
	challenge, err := s.store.GetChallenge(ctx, discordID)
	if err != nil {
		return Link{}, err
	}

	id, err := strconv.ParseInt(challenge.RobloxID, 10, 64)
	if err != nil {
		return Link{}, fmt.Errorf("challenge has invalid roblox id %q", challenge.RobloxID)
	}
	info, err := s.directory.UserInfo(ctx, id)
	if err != nil {
		if errors.Is(err, roblox.ErrNotFound) {
			return Link{}, ErrAccountNotFound
		}
		return Link{}, err
	}
	if !strings.Contains(info.Description, challenge.Code) {
		return Link{}, ErrCodeNotFound
	}

	link, err := s.store.CommitLink(ctx, discordID, challenge.RobloxID)
	if err != nil {
		return Link{}, err
	}
	s.logger.Info("identity linked",
		slog.String("discord_id", discordID),
		slog.String("roblox_id", challenge.RobloxID),
	)
	return link, nil
}

// Cancel removes any pending challenge for discordID. Cancelling with
// nothing pending is not an error.
func (s *Service) Cancel(ctx context.Context, discordID string) error {
	return s.store.DeleteChallenge(ctx, discordID)
}

// Unlink removes one confirmed link. Idempotent: a second call for the
// same pair succeeds with no effect.
func (s *Service) Unlink(ctx context.Context, discordID, robloxID string) error {
	if err := s.store.DeleteLink(ctx, discordID, robloxID); err != nil {
		return err
	}
	s.logger.Info("identity unlinked",
		slog.String("discord_id", discordID),
		slog.String("roblox_id", robloxID),
	)
	return nil
}

// Links lists the confirmed links for a Discord account, oldest first.
func (s *Service) Links(ctx context.Context, discordID string) ([]Link, error) {
	return s.store.ListLinksByDiscordID(ctx, discordID)
}

// LinksByRobloxID lists the Discord accounts linked to a Roblox account.
func (s *Service) LinksByRobloxID(ctx context.Context, robloxID string) ([]Link, error) {
	return s.store.ListLinksByRobloxID(ctx, robloxID)
}

func (s *Service) resumed(ctx context.Context, challenge Challenge) (ChallengeResult, error) {
	result := ChallengeResult{Challenge: challenge, Resumed: true}
	id, err := strconv.ParseInt(challenge.RobloxID, 10, 64)
	if err != nil {
		return result, nil
	}
	// Name lookup is cosmetic; the resume itself never fails on it.
	if info, err := s.directory.UserInfo(ctx, id); err == nil {
		result.Account = roblox.User{ID: info.ID, Name: info.Name, DisplayName: info.DisplayName}
	}
	return result, nil
}
