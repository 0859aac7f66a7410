// Package reconcile computes and applies the Discord role set a member
// is entitled to from their linked Roblox account's group rank.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/roblox"
	"github.com/garrisonhq/garrison/internal/verification"
)

// Directory is the read-only slice of the Roblox client the engine
// consults.
type Directory interface {
	GroupRoles(ctx context.Context, id int64) ([]roblox.GroupRole, error)
	UserInfo(ctx context.Context, id int64) (roblox.UserInfo, error)
}

// LinkReader resolves a member's confirmed identity links.
type LinkReader interface {
	Links(ctx context.Context, discordID string) ([]verification.Link, error)
}

// RoleEditor mutates Discord member state. SetMemberRoles must replace
// the full role set in one call so other observers never see an
// intermediate state.
type RoleEditor interface {
	SetMemberRoles(ctx context.Context, discordID string, roleIDs []string) error
	SetNickname(ctx context.Context, discordID, nickname string) error
}

// Engine diffs a member's current roles against the set derived from
// their Roblox group rank and applies the difference idempotently.
type Engine struct {
	cfg       config.Config
	directory Directory
	links     LinkReader
	editor    RoleEditor
	logger    *slog.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(log *slog.Logger, cfg config.Config, directory Directory, links LinkReader, editor RoleEditor) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:       cfg,
		directory: directory,
		links:     links,
		editor:    editor,
		logger:    log.With(slog.String("service", "reconcile")),
	}
}

// Reconcile computes the member's entitlement diff and applies it. When
// robloxID is empty the member's first stored link is used;
// ErrNotVerified is returned if none exists. Role application failures
// are fatal; nickname failures are reported on the result and are not.
func (e *Engine) Reconcile(ctx context.Context, member Member, robloxID string) (Result, error) {
	if robloxID == "" {
		links, err := e.links.Links(ctx, member.DiscordID)
		if err != nil {
			return Result{}, err
		}
		if len(links) == 0 {
			return Result{}, ErrNotVerified
		}
		robloxID = links[0].RobloxID
	}

	plan, err := e.Plan(ctx, member, robloxID)
	if err != nil {
		return Result{}, err
	}
	result := Result{Plan: plan}

	if len(plan.Granted) > 0 || len(plan.Revoked) > 0 {
		next := applyDiff(member.RoleIDs, plan.Granted, plan.Revoked)
		if err := e.editor.SetMemberRoles(ctx, member.DiscordID, next); err != nil {
			return result, fmt.Errorf("apply role diff: %w", err)
		}
	}
	if plan.NicknameChanged {
		if err := e.editor.SetNickname(ctx, member.DiscordID, plan.Nickname); err != nil {
			result.NicknameErr = err
		}
	}

	e.logger.Info("member reconciled",
		slog.String("discord_id", member.DiscordID),
		slog.String("roblox_id", robloxID),
		slog.Int("granted", len(plan.Granted)),
		slog.Int("revoked", len(plan.Revoked)),
	)
	return result, nil
}

// Plan computes the role diff without applying it.
func (e *Engine) Plan(ctx context.Context, member Member, robloxID string) (Plan, error) {
	id, err := strconv.ParseInt(robloxID, 10, 64)
	if err != nil {
		return Plan{}, fmt.Errorf("invalid roblox id %q", robloxID)
	}

	groups, err := e.directory.GroupRoles(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	groupRoleID := ""
	for _, g := range groups {
		if g.Group.ID == e.cfg.Roblox.MonitoredGroupID {
			groupRoleID = strconv.FormatInt(g.Role.ID, 10)
			break
		}
	}

	target := targetRoles(e.cfg, groupRoleID)
	granted, revoked := diffRoles(member.RoleIDs, target, vocabulary(e.cfg))

	plan := Plan{
		RobloxID: robloxID,
		Granted:  granted,
		Revoked:  revoked,
	}

	info, err := e.directory.UserInfo(ctx, id)
	if err != nil {
		// NotFound here would mean the account vanished mid-flight;
		// treat like any other directory failure.
		return Plan{}, err
	}
	plan.Nickname = info.Name
	plan.NicknameChanged = member.Nickname != info.Name
	return plan, nil
}

// targetRoles returns the full entitlement set for a member whose
// monitored-group role is groupRoleID ("" when not a group member).
// Baseline is always {verified, outsider, basic category}; a matched
// rank adds its Discord role plus its tier category; an unknown rank id
// stays baseline-only (a rank-table configuration gap, not an error).
func targetRoles(cfg config.Config, groupRoleID string) []string {
	target := []string{
		cfg.Roles.Verified,
		cfg.Roles.Outsider,
		cfg.Roles.BasicCategory,
	}
	if groupRoleID == "" {
		return target
	}
	if groupRoleID == cfg.Roles.SupporterGroupRole {
		return append(target, cfg.Roles.Supporter)
	}
	rank, ok := cfg.RankByGroupRole(groupRoleID)
	if !ok {
		return target
	}
	target = append(target, rank.RoleID)
	switch rank.Tier {
	case config.TierLow:
		target = append(target, cfg.Roles.LowCategory)
	case config.TierMid:
		target = append(target, cfg.Roles.MidCategory)
	}
	return target
}

// vocabulary is every role id the bot is allowed to revoke. Roles
// outside it are never touched, whatever the diff says.
func vocabulary(cfg config.Config) map[string]struct{} {
	vocab := map[string]struct{}{
		cfg.Roles.Verified:      {},
		cfg.Roles.Unverified:    {},
		cfg.Roles.Outsider:      {},
		cfg.Roles.Member:        {},
		cfg.Roles.BasicCategory: {},
		cfg.Roles.LowCategory:   {},
		cfg.Roles.MidCategory:   {},
		cfg.Roles.Supporter:     {},
	}
	for _, rank := range cfg.Ranks {
		vocab[rank.RoleID] = struct{}{}
	}
	delete(vocab, "")
	return vocab
}

// diffRoles computes granted = target - current and
// revoked = (current ∩ vocab) - target, preserving input order.
func diffRoles(current, target []string, vocab map[string]struct{}) (granted, revoked []string) {
	has := make(map[string]struct{}, len(current))
	for _, role := range current {
		has[role] = struct{}{}
	}
	wants := make(map[string]struct{}, len(target))
	for _, role := range target {
		if role == "" {
			continue
		}
		wants[role] = struct{}{}
		if _, ok := has[role]; !ok {
			granted = append(granted, role)
		}
	}
	for _, role := range current {
		if _, known := vocab[role]; !known {
			continue
		}
		if _, ok := wants[role]; !ok {
			revoked = append(revoked, role)
		}
	}
	return granted, revoked
}

// applyDiff produces the member's next full role set for the bulk edit.
func applyDiff(current, granted, revoked []string) []string {
	drop := make(map[string]struct{}, len(revoked))
	for _, role := range revoked {
		drop[role] = struct{}{}
	}
	next := make([]string, 0, len(current)+len(granted))
	for _, role := range current {
		if _, ok := drop[role]; !ok {
			next = append(next, role)
		}
	}
	return append(next, granted...)
}
