package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/garrisonhq/garrison/internal/roblox"
)

// Directory is the batch-lookup slice of the Roblox client the runner
// uses. One presence request and one name request per cycle, regardless
// of watch-list size.
type Directory interface {
	UsersByIDs(ctx context.Context, ids []int64) ([]roblox.User, error)
	Presences(ctx context.Context, ids []int64) ([]roblox.Presence, error)
	AvatarURL(ctx context.Context, id int64) (string, error)
}

// Notifier delivers a transition event to the announcement destination.
type Notifier interface {
	Announce(ctx context.Context, event Event) error
}

// activity classification for one observed presence.
type activity int

const (
	activityNone activity = iota // offline, online outside a game, studio
	activityMonitored
	activityHidden // in-game, place not visible (joins off)
	activityElsewhere
)

func classify(p roblox.Presence, monitoredPlaceID int64) activity {
	if p.UserPresenceType != roblox.PresenceInGame {
		return activityNone
	}
	switch {
	case p.PlaceID == nil:
		return activityHidden
	case *p.PlaceID == monitoredPlaceID:
		return activityMonitored
	default:
		return activityElsewhere
	}
}

// Runner polls presence for the watch-list on a fixed interval and
// announces transitions.
type Runner struct {
	store            Store
	directory        Directory
	notifier         Notifier
	monitoredPlaceID int64
	cron             *cron.Cron
	cycleTimeout     time.Duration
	logger           *slog.Logger
}

// NewRunner creates a presence tracker runner.
func NewRunner(log *slog.Logger, store Store, directory Directory, notifier Notifier, monitoredPlaceID int64) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		store:            store,
		directory:        directory,
		notifier:         notifier,
		monitoredPlaceID: monitoredPlaceID,
		cron:             cron.New(),
		cycleTimeout:     45 * time.Second,
		logger:           log.With(slog.String("service", "tracker_runner")),
	}
}

// Start schedules the poll at the given interval (a Go duration string,
// e.g. "1m") and begins running cycles.
func (r *Runner) Start(interval string) error {
	if _, err := time.ParseDuration(interval); err != nil {
		return fmt.Errorf("invalid tracker interval %q: %w", interval, err)
	}
	_, err := r.cron.AddFunc("@every "+interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cycleTimeout)
		defer cancel()
		if err := r.RunCycle(ctx); err != nil {
			r.logger.Warn("tracker cycle aborted", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule tracker: %w", err)
	}
	r.cron.Start()
	r.logger.Info("tracker started", slog.String("interval", interval))
	return nil
}

// Stop halts scheduling and waits for a running cycle to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// RunCycle executes one poll: load the watch-list, batch-fetch presence
// and names, and announce transitions. Any batch fetch failure (rate
// limit, malformed response) aborts the cycle before any posted flag
// changes; the next interval retries from unchanged state.
func (r *Runner) RunCycle(ctx context.Context) error {
	accounts, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(accounts))
	byID := make(map[int64]Account, len(accounts))
	for _, account := range accounts {
		id, err := strconv.ParseInt(account.RobloxID, 10, 64)
		if err != nil {
			r.logger.Warn("skipping tracked account with invalid id", slog.String("roblox_id", account.RobloxID))
			continue
		}
		ids = append(ids, id)
		byID[id] = account
	}
	if len(ids) == 0 {
		return nil
	}

	presences, err := r.directory.Presences(ctx, ids)
	if err != nil {
		return fmt.Errorf("batch presence fetch: %w", err)
	}
	users, err := r.directory.UsersByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("batch user fetch: %w", err)
	}
	names := make(map[int64]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}

	for _, presence := range presences {
		account, ok := byID[presence.UserID]
		if !ok {
			continue
		}
		kind, next, emit := transition(account.Posted, classify(presence, r.monitoredPlaceID))
		if !emit {
			continue
		}
		event := Event{
			Kind:         kind,
			RobloxID:     presence.UserID,
			DisplayName:  names[presence.UserID],
			ProfileURL:   roblox.ProfileURL(presence.UserID),
			LastLocation: presence.LastLocation,
		}
		if url, err := r.directory.AvatarURL(ctx, presence.UserID); err == nil {
			event.AvatarURL = url
		}
		if err := r.notifier.Announce(ctx, event); err != nil {
			// Flag stays as-is so the transition is announced next cycle.
			r.logger.Warn("announce failed",
				slog.String("roblox_id", account.RobloxID),
				slog.Any("error", err),
			)
			continue
		}
		if err := r.store.SetPosted(ctx, account.RobloxID, next); err != nil {
			r.logger.Error("update posted flag failed",
				slog.String("roblox_id", account.RobloxID),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

// transition applies the announcement state machine: posted tracks
// whether the current activity state has been announced. Steady states
// (still in the monitored place, still hidden) emit nothing.
func transition(posted bool, observed activity) (kind EventKind, next bool, emit bool) {
	if !posted {
		switch observed {
		case activityMonitored:
			return EventEntered, true, true
		case activityHidden:
			return EventUnknownActivity, true, true
		}
		return "", false, false
	}
	switch observed {
	case activityMonitored, activityHidden:
		return "", true, false
	}
	return EventLeft, false, true
}
