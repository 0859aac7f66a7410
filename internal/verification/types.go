package verification

import (
	"errors"
	"time"

	"github.com/garrisonhq/garrison/internal/roblox"
)

// Protocol-level error kinds, rendered as user-visible messages by the
// command layer.
var (
	// ErrAccountNotFound: the external platform reports no such account.
	ErrAccountNotFound = errors.New("verification: external account not found")
	// ErrNoPendingChallenge: confirm/cancel with nothing outstanding.
	ErrNoPendingChallenge = errors.New("verification: no pending challenge")
	// ErrCodeNotFound: the issued code is not in the profile description.
	ErrCodeNotFound = errors.New("verification: code not found in profile")
	// ErrAlreadyLinked: the (discord, roblox) pair is already confirmed.
	ErrAlreadyLinked = errors.New("verification: account already linked")
)

// Challenge is an outstanding verification attempt. At most one exists
// per Discord account at any time.
type Challenge struct {
	DiscordID string
	RobloxID  string
	Code      string
	CreatedAt time.Time
}

// Link is a confirmed binding between a Discord account and a Roblox
// account. A Discord account may hold several links.
type Link struct {
	DiscordID  string
	RobloxID   string
	VerifiedAt time.Time
}

// ChallengeResult is returned by Initiate. Resumed is true when an
// earlier challenge for the same Discord account was returned instead of
// a new one being issued.
type ChallengeResult struct {
	Challenge Challenge
	Account   roblox.User
	Resumed   bool
}
