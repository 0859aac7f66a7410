package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/garrisonhq/garrison/internal/roblox"
)

const monitoredPlace int64 = 4238077359

type memStore struct {
	accounts map[string]Account
}

func newMemTrackerStore(accounts ...Account) *memStore {
	s := &memStore{accounts: make(map[string]Account)}
	for _, a := range accounts {
		s.accounts[a.RobloxID] = a
	}
	return s
}

func (s *memStore) Create(_ context.Context, account Account) (Account, error) {
	if _, ok := s.accounts[account.RobloxID]; ok {
		return Account{}, ErrAlreadyTracked
	}
	s.accounts[account.RobloxID] = account
	return account, nil
}

func (s *memStore) Get(_ context.Context, robloxID string) (Account, error) {
	account, ok := s.accounts[robloxID]
	if !ok {
		return Account{}, ErrNotTracked
	}
	return account, nil
}

func (s *memStore) List(context.Context) ([]Account, error) {
	out := make([]Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, robloxID string) error {
	if _, ok := s.accounts[robloxID]; !ok {
		return ErrNotTracked
	}
	delete(s.accounts, robloxID)
	return nil
}

func (s *memStore) SetPosted(_ context.Context, robloxID string, posted bool) error {
	account, ok := s.accounts[robloxID]
	if !ok {
		return ErrNotTracked
	}
	account.Posted = posted
	s.accounts[robloxID] = account
	return nil
}

type stubDirectory struct {
	presences   []roblox.Presence
	presenceErr error
	users       []roblox.User
	usersErr    error
}

func (d *stubDirectory) UsersByIDs(context.Context, []int64) ([]roblox.User, error) {
	return d.users, d.usersErr
}

func (d *stubDirectory) Presences(context.Context, []int64) ([]roblox.Presence, error) {
	return d.presences, d.presenceErr
}

func (d *stubDirectory) AvatarURL(context.Context, int64) (string, error) {
	return "https://cdn.example/headshot.png", nil
}

type recordingNotifier struct {
	events []Event
	err    error
}

func (n *recordingNotifier) Announce(_ context.Context, event Event) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func inGame(userID int64, placeID *int64) roblox.Presence {
	return roblox.Presence{UserID: userID, UserPresenceType: roblox.PresenceInGame, PlaceID: placeID}
}

func TestRunCycleEnterAndLeave(t *testing.T) {
	store := newMemTrackerStore(Account{RobloxID: "42"})
	place := monitoredPlace
	directory := &stubDirectory{
		presences: []roblox.Presence{inGame(42, &place)},
		users:     []roblox.User{{ID: 42, Name: "builder"}},
	}
	notifier := &recordingNotifier{}
	runner := NewRunner(nil, store, directory, notifier, monitoredPlace)
	ctx := context.Background()

	if err := runner.RunCycle(ctx); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if len(notifier.events) != 1 || notifier.events[0].Kind != EventEntered {
		t.Fatalf("events = %v, want one entered", notifier.events)
	}
	if account, _ := store.Get(ctx, "42"); !account.Posted {
		t.Fatal("posted flag not set after enter announcement")
	}

	// Still in the monitored place: steady state, nothing new.
	if err := runner.RunCycle(ctx); err != nil {
		t.Fatalf("steady cycle: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("steady cycle announced %d extra events", len(notifier.events)-1)
	}

	// Now merely online outside a game: that is a departure.
	directory.presences = []roblox.Presence{{UserID: 42, UserPresenceType: roblox.PresenceOnline}}
	if err := runner.RunCycle(ctx); err != nil {
		t.Fatalf("leave cycle: %v", err)
	}
	if len(notifier.events) != 2 || notifier.events[1].Kind != EventLeft {
		t.Fatalf("events = %v, want entered then left", notifier.events)
	}
	if account, _ := store.Get(ctx, "42"); account.Posted {
		t.Fatal("posted flag not cleared after leave announcement")
	}
}

func TestRunCycleHiddenJoins(t *testing.T) {
	store := newMemTrackerStore(Account{RobloxID: "42"})
	directory := &stubDirectory{
		presences: []roblox.Presence{inGame(42, nil)},
		users:     []roblox.User{{ID: 42, Name: "builder"}},
	}
	notifier := &recordingNotifier{}
	runner := NewRunner(nil, store, directory, notifier, monitoredPlace)
	ctx := context.Background()

	if err := runner.RunCycle(ctx); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if len(notifier.events) != 1 || notifier.events[0].Kind != EventUnknownActivity {
		t.Fatalf("events = %v, want one unknown-activity", notifier.events)
	}

	// Hidden joins persisting is a steady state, not a churn of
	// unknown-activity/left announcements.
	if err := runner.RunCycle(ctx); err != nil {
		t.Fatalf("steady cycle: %v", err)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("steady hidden cycle announced %d extra events", len(notifier.events)-1)
	}
	if account, _ := store.Get(ctx, "42"); !account.Posted {
		t.Fatal("posted flag lost while joins stayed hidden")
	}
}

func TestRunCycleOfflineUnpostedIsQuiet(t *testing.T) {
	store := newMemTrackerStore(Account{RobloxID: "42"})
	directory := &stubDirectory{
		presences: []roblox.Presence{{UserID: 42, UserPresenceType: roblox.PresenceOffline}},
		users:     []roblox.User{{ID: 42, Name: "builder"}},
	}
	notifier := &recordingNotifier{}
	runner := NewRunner(nil, store, directory, notifier, monitoredPlace)

	if err := runner.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if len(notifier.events) != 0 {
		t.Fatalf("offline unposted account produced events: %v", notifier.events)
	}
}

func TestRunCycleBatchFailureLeavesStateUntouched(t *testing.T) {
	store := newMemTrackerStore(Account{RobloxID: "42", Posted: true})
	directory := &stubDirectory{presenceErr: roblox.ErrRateLimited}
	notifier := &recordingNotifier{}
	runner := NewRunner(nil, store, directory, notifier, monitoredPlace)
	ctx := context.Background()

	if err := runner.RunCycle(ctx); !errors.Is(err, roblox.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}
	if len(notifier.events) != 0 {
		t.Fatalf("aborted cycle produced events: %v", notifier.events)
	}
	if account, _ := store.Get(ctx, "42"); !account.Posted {
		t.Fatal("aborted cycle changed the posted flag")
	}
}

func TestRunCycleAnnounceFailureKeepsFlag(t *testing.T) {
	store := newMemTrackerStore(Account{RobloxID: "42"})
	place := monitoredPlace
	directory := &stubDirectory{
		presences: []roblox.Presence{inGame(42, &place)},
		users:     []roblox.User{{ID: 42, Name: "builder"}},
	}
	notifier := &recordingNotifier{err: errors.New("channel gone")}
	runner := NewRunner(nil, store, directory, notifier, monitoredPlace)
	ctx := context.Background()

	if err := runner.RunCycle(ctx); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	// The transition was never delivered, so it must fire again next
	// cycle.
	if account, _ := store.Get(ctx, "42"); account.Posted {
		t.Fatal("posted flag set despite failed announcement")
	}

	notifier.err = nil
	if err := runner.RunCycle(ctx); err != nil {
		t.Fatalf("retry cycle: %v", err)
	}
	if len(notifier.events) != 1 || notifier.events[0].Kind != EventEntered {
		t.Fatalf("events = %v, want one entered after retry", notifier.events)
	}
}

func TestRunCycleEmptyWatchList(t *testing.T) {
	directory := &stubDirectory{presenceErr: errors.New("must not be called")}
	runner := NewRunner(nil, newMemTrackerStore(), directory, &recordingNotifier{}, monitoredPlace)

	if err := runner.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name     string
		posted   bool
		observed activity
		wantKind EventKind
		wantNext bool
		wantEmit bool
	}{
		{"enter", false, activityMonitored, EventEntered, true, true},
		{"hidden", false, activityHidden, EventUnknownActivity, true, true},
		{"quiet offline", false, activityNone, "", false, false},
		{"quiet elsewhere", false, activityElsewhere, "", false, false},
		{"steady monitored", true, activityMonitored, "", true, false},
		{"steady hidden", true, activityHidden, "", true, false},
		{"leave", true, activityNone, EventLeft, false, true},
		{"leave elsewhere", true, activityElsewhere, EventLeft, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, next, emit := transition(tt.posted, tt.observed)
			if kind != tt.wantKind || next != tt.wantNext || emit != tt.wantEmit {
				t.Fatalf("transition(%v, %v) = (%q, %v, %v), want (%q, %v, %v)",
					tt.posted, tt.observed, kind, next, emit, tt.wantKind, tt.wantNext, tt.wantEmit)
			}
		})
	}
}
