package verification

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/garrisonhq/garrison/internal/roblox"
)

// memStore is an in-memory Store with the same first-write-wins
// challenge semantics as the Postgres one.
type memStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
	links      map[string][]Link
}

func newMemStore() *memStore {
	return &memStore{
		challenges: make(map[string]Challenge),
		links:      make(map[string][]Link),
	}
}

func (s *memStore) CreateChallenge(_ context.Context, challenge Challenge) (Challenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.challenges[challenge.DiscordID]; ok {
		return existing, false, nil
	}
	s.challenges[challenge.DiscordID] = challenge
	return challenge, true, nil
}

func (s *memStore) GetChallenge(_ context.Context, discordID string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challenges[discordID]
	if !ok {
		return Challenge{}, ErrNoPendingChallenge
	}
	return challenge, nil
}

func (s *memStore) DeleteChallenge(_ context.Context, discordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, discordID)
	return nil
}

func (s *memStore) CommitLink(_ context.Context, discordID, robloxID string) (Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, link := range s.links[discordID] {
		if link.RobloxID == robloxID {
			return Link{}, ErrAlreadyLinked
		}
	}
	link := Link{DiscordID: discordID, RobloxID: robloxID}
	s.links[discordID] = append(s.links[discordID], link)
	delete(s.challenges, discordID)
	return link, nil
}

func (s *memStore) ListLinksByDiscordID(_ context.Context, discordID string) ([]Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Link(nil), s.links[discordID]...), nil
}

func (s *memStore) ListLinksByRobloxID(_ context.Context, robloxID string) ([]Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Link
	for _, links := range s.links {
		for _, link := range links {
			if link.RobloxID == robloxID {
				out = append(out, link)
			}
		}
	}
	return out, nil
}

func (s *memStore) DeleteLink(_ context.Context, discordID, robloxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	links := s.links[discordID]
	for n, link := range links {
		if link.RobloxID == robloxID {
			s.links[discordID] = append(links[:n], links[n+1:]...)
			return nil
		}
	}
	return nil
}

// stubDirectory serves fixed users and profile descriptions.
type stubDirectory struct {
	users        map[string]roblox.User // keyed by name
	descriptions map[int64]string
}

func (d *stubDirectory) ResolveAccount(_ context.Context, ref string) (roblox.User, error) {
	if len(ref) > 0 && ref[0] == '#' {
		id, err := strconv.ParseInt(ref[1:], 10, 64)
		if err != nil {
			return roblox.User{}, roblox.ErrNotFound
		}
		for _, user := range d.users {
			if user.ID == id {
				return user, nil
			}
		}
		return roblox.User{}, roblox.ErrNotFound
	}
	user, ok := d.users[ref]
	if !ok {
		return roblox.User{}, roblox.ErrNotFound
	}
	return user, nil
}

func (d *stubDirectory) UserInfo(_ context.Context, id int64) (roblox.UserInfo, error) {
	for _, user := range d.users {
		if user.ID == id {
			return roblox.UserInfo{
				ID:          user.ID,
				Name:        user.Name,
				DisplayName: user.DisplayName,
				Description: d.descriptions[id],
			}, nil
		}
	}
	return roblox.UserInfo{}, roblox.ErrNotFound
}

func newTestService() (*Service, *memStore, *stubDirectory) {
	store := newMemStore()
	directory := &stubDirectory{
		users: map[string]roblox.User{
			"builder": {ID: 42, Name: "builder", DisplayName: "Builder"},
		},
		descriptions: map[int64]string{},
	}
	return NewService(nil, store, directory), store, directory
}

func TestInitiateIssuesChallenge(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Initiate(context.Background(), "d1", "builder")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if result.Resumed {
		t.Fatal("fresh initiate reported resumed")
	}
	if result.Challenge.RobloxID != "42" {
		t.Fatalf("challenge roblox id = %q, want 42", result.Challenge.RobloxID)
	}
	if result.Challenge.Code == "" {
		t.Fatal("challenge has empty code")
	}
}

func TestInitiateUnknownAccount(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Initiate(context.Background(), "d1", "nobody")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestInitiateResumesPending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Initiate(ctx, "d1", "builder")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	// Second initiate ignores the (different) ref and resumes.
	second, err := svc.Initiate(ctx, "d1", "#42")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !second.Resumed {
		t.Fatal("second initiate not reported as resumed")
	}
	if second.Challenge.Code != first.Challenge.Code {
		t.Fatalf("resumed code %q differs from issued %q", second.Challenge.Code, first.Challenge.Code)
	}
}

func TestInitiateConcurrentSingleChallenge(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	const n = 8
	results := make([]ChallengeResult, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Initiate(ctx, "d1", "builder")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("initiate %d: %v", i, errs[i])
		}
		if results[i].Challenge.Code != results[0].Challenge.Code {
			t.Fatal("concurrent initiates observed different challenges")
		}
	}
	if len(store.challenges) != 1 {
		t.Fatalf("stored %d challenges, want 1", len(store.challenges))
	}
}

func TestConfirmCommitsOnExactCode(t *testing.T) {
	svc, store, directory := newTestService()
	ctx := context.Background()

	result, err := svc.Initiate(ctx, "d1", "builder")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	directory.descriptions[42] = "hello! " + result.Challenge.Code + " thanks"

	link, err := svc.Confirm(ctx, "d1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if link.RobloxID != "42" {
		t.Fatalf("link roblox id = %q, want 42", link.RobloxID)
	}
	if len(store.challenges) != 0 {
		t.Fatal("challenge not removed after confirm")
	}
}

func TestConfirmRejectsNearMissCode(t *testing.T) {
	svc, store, directory := newTestService()
	ctx := context.Background()

	result, err := svc.Initiate(ctx, "d1", "builder")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	code := result.Challenge.Code
	// Drop the last character: a near miss must not verify.
	directory.descriptions[42] = code[:len(code)-1]

	if _, err := svc.Confirm(ctx, "d1"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("err = %v, want ErrCodeNotFound", err)
	}
	// The challenge survives the failed attempt.
	if _, ok := store.challenges["d1"]; !ok {
		t.Fatal("challenge removed after failed confirm")
	}
	directory.descriptions[42] = code
	if _, err := svc.Confirm(ctx, "d1"); err != nil {
		t.Fatalf("confirm after profile fix: %v", err)
	}
}

func TestConfirmWithoutChallenge(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Confirm(context.Background(), "d1")
	if !errors.Is(err, ErrNoPendingChallenge) {
		t.Fatalf("err = %v, want ErrNoPendingChallenge", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Initiate(ctx, "d1", "builder"); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if err := svc.Cancel(ctx, "d1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Cancel(ctx, "d1"); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if _, err := svc.Confirm(ctx, "d1"); !errors.Is(err, ErrNoPendingChallenge) {
		t.Fatalf("err after cancel = %v, want ErrNoPendingChallenge", err)
	}
}

func TestUnlinkIsIdempotent(t *testing.T) {
	svc, _, directory := newTestService()
	ctx := context.Background()

	result, err := svc.Initiate(ctx, "d1", "builder")
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	directory.descriptions[42] = result.Challenge.Code
	if _, err := svc.Confirm(ctx, "d1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := svc.Unlink(ctx, "d1", "42"); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if err := svc.Unlink(ctx, "d1", "42"); err != nil {
		t.Fatalf("second unlink: %v", err)
	}
	links, err := svc.Links(ctx, "d1")
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("links after unlink = %d, want 0", len(links))
	}
}
