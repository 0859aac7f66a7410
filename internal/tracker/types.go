package tracker

import (
	"errors"
	"time"
)

// Store-level error kinds.
var (
	ErrAlreadyTracked = errors.New("tracker: account already tracked")
	ErrNotTracked     = errors.New("tracker: account not tracked")
)

// Account is one watch-list entry. Posted records whether the account's
// current activity state has already been announced, so a state held
// across cycles is announced once.
type Account struct {
	RobloxID    string
	Posted      bool
	ModeratorID string
	Reason      string
	CreatedAt   time.Time
}

// EventKind classifies a presence transition.
type EventKind string

// Presence transition kinds.
const (
	// EventEntered: the account was observed inside the monitored place.
	EventEntered EventKind = "entered"
	// EventUnknownActivity: in-game but the place is hidden (joins off).
	EventUnknownActivity EventKind = "unknown_activity"
	// EventLeft: no longer in the monitored place (or offline).
	EventLeft EventKind = "left"
)

// Event is one announced presence transition.
type Event struct {
	Kind        EventKind
	RobloxID    int64
	DisplayName string
	ProfileURL  string
	AvatarURL   string
	// LastLocation is upstream's human-readable location string.
	LastLocation string
}
