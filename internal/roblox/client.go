// Package roblox is a typed, read-only client for the Roblox web APIs
// (users, groups, presence, thumbnails).
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/garrisonhq/garrison/internal/config"
)

// Error kinds surfaced by every call. Rate limits are transient (retry
// next cycle, never inline); not-found is a normal negative result;
// malformed means the upstream shape did not validate.
var (
	ErrNotFound    = errors.New("roblox: not found")
	ErrRateLimited = errors.New("roblox: rate limited")
	ErrMalformed   = errors.New("roblox: malformed response")
)

// Client calls the Roblox web APIs. All methods are safe for concurrent
// use; outbound requests share one client-side rate limiter.
type Client struct {
	cfg     config.RobloxConfig
	cookie  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a Roblox client from config. The .ROBLOSECURITY cookie
// (needed by the presence endpoint) is read from the configured
// environment variable.
func NewClient(log *slog.Logger, cfg config.RobloxConfig) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		cookie: os.Getenv(cfg.CookieEnv),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 5),
		logger:  log.With(slog.String("client", "roblox")),
	}
}

// UsersByIDs batch-resolves numeric user ids to id/name pairs. Unknown
// ids are absent from the result, not an error.
func (c *Client) UsersByIDs(ctx context.Context, ids []int64) ([]User, error) {
	var out dataEnvelope[User]
	err := c.do(ctx, http.MethodPost, c.cfg.UsersBaseURL+"/v1/users", usersByIDsRequest{UserIDs: ids}, &out)
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, ErrMalformed
	}
	return *out.Data, nil
}

// UserByName resolves an exact username. Returns ErrNotFound when the
// platform reports no match.
func (c *Client) UserByName(ctx context.Context, name string) (User, error) {
	var out dataEnvelope[User]
	err := c.do(ctx, http.MethodPost, c.cfg.UsersBaseURL+"/v1/usernames/users", usersByNameRequest{Usernames: []string{name}}, &out)
	if err != nil {
		return User{}, err
	}
	if out.Data == nil {
		return User{}, ErrMalformed
	}
	if len(*out.Data) == 0 {
		return User{}, ErrNotFound
	}
	return (*out.Data)[0], nil
}

// UserInfo fetches the full public profile, including the description
// field used for verification proofs.
func (c *Client) UserInfo(ctx context.Context, id int64) (UserInfo, error) {
	var out UserInfo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/v1/users/%d", c.cfg.UsersBaseURL, id), nil, &out)
	if err != nil {
		return UserInfo{}, err
	}
	if out.ID == 0 {
		return UserInfo{}, ErrMalformed
	}
	return out, nil
}

// GroupRoles fetches all group memberships (group + role within it) for
// a user.
func (c *Client) GroupRoles(ctx context.Context, id int64) ([]GroupRole, error) {
	var out dataEnvelope[GroupRole]
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/v1/users/%d/groups/roles", c.cfg.GroupsBaseURL, id), nil, &out)
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, ErrMalformed
	}
	return *out.Data, nil
}

// Presences batch-fetches live presence for the given user ids in one
// request.
func (c *Client) Presences(ctx context.Context, ids []int64) ([]Presence, error) {
	var out presenceEnvelope
	err := c.do(ctx, http.MethodPost, c.cfg.PresenceBaseURL+"/v1/presence/users", presenceRequest{UserIDs: ids}, &out)
	if err != nil {
		return nil, err
	}
	if out.UserPresences == nil {
		return nil, ErrMalformed
	}
	return *out.UserPresences, nil
}

// AvatarURL fetches the headshot thumbnail URL for a user. Returns
// ErrNotFound when the thumbnail service has no entry for the id.
func (c *Client) AvatarURL(ctx context.Context, id int64) (string, error) {
	var out dataEnvelope[avatarEntry]
	url := fmt.Sprintf("%s/v1/users/avatar-headshot?userIds=%d&size=48x48&format=Png&isCircular=false", c.cfg.ThumbnailsBaseURL, id)
	err := c.do(ctx, http.MethodGet, url, nil, &out)
	if err != nil {
		return "", err
	}
	if out.Data == nil {
		return "", ErrMalformed
	}
	if len(*out.Data) == 0 {
		return "", ErrNotFound
	}
	return (*out.Data)[0].ImageURL, nil
}

// ResolveAccount resolves a user-supplied account reference: "#1234" is
// a numeric id, anything else is an exact username.
func (c *Client) ResolveAccount(ctx context.Context, ref string) (User, error) {
	ref = strings.TrimSpace(ref)
	if rest, ok := strings.CutPrefix(ref, "#"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return User{}, fmt.Errorf("%w: invalid account id %q", ErrNotFound, rest)
		}
		users, err := c.UsersByIDs(ctx, []int64{id})
		if err != nil {
			return User{}, err
		}
		if len(users) == 0 {
			return User{}, ErrNotFound
		}
		return users[0], nil
	}
	if ref == "" {
		return User{}, ErrNotFound
	}
	return c.UserByName(ctx, ref)
}

// ProfileURL returns the public profile deep link for a user id.
func ProfileURL(id int64) string {
	return fmt.Sprintf("https://www.roblox.com/users/%d/profile", id)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", ".ROBLOSECURITY="+c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("close response body failed", slog.Any("error", err))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: %s %s: status %d", ErrMalformed, method, url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
