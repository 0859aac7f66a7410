package reconcile

import "errors"

// ErrNotVerified: the member has no identity link and no explicit
// account was supplied, so there is nothing to reconcile against.
var ErrNotVerified = errors.New("reconcile: member is not verified")

// Member is the chat-platform view of the account being reconciled.
type Member struct {
	DiscordID string
	Nickname  string
	RoleIDs   []string
}

// Plan is the role-change set computed by one reconciliation pass. It is
// ephemeral: computed fresh each call, applied, and discarded.
type Plan struct {
	RobloxID string
	Granted  []string
	Revoked  []string
	// Nickname is the external display name; NicknameChanged reports
	// whether it differs from the member's current nickname.
	Nickname        string
	NicknameChanged bool
}

// Result is a Plan after application. NicknameErr carries a non-fatal
// nickname-update failure (e.g. missing permission); role changes and
// nickname changes are independent failure domains.
type Result struct {
	Plan
	NicknameErr error
}
