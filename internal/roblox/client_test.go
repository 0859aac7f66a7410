package roblox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/garrisonhq/garrison/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(nil, config.RobloxConfig{
		UsersBaseURL:      srv.URL,
		GroupsBaseURL:     srv.URL,
		PresenceBaseURL:   srv.URL,
		ThumbnailsBaseURL: srv.URL,
	})
}

func TestUserByName(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/usernames/users" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Usernames []string `json:"usernames"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Usernames) != 1 || req.Usernames[0] != "builder" {
			t.Fatalf("usernames = %v", req.Usernames)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": 42, "name": "builder", "displayName": "Builder"}},
		})
	}))

	user, err := client.UserByName(context.Background(), "builder")
	if err != nil {
		t.Fatalf("user by name: %v", err)
	}
	if user.ID != 42 || user.Name != "builder" {
		t.Fatalf("user = %+v", user)
	}
}

func TestUserByNameNoMatch(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))

	_, err := client.UserByName(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveAccountForms(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/users":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{"id": 42, "name": "builder"}},
			})
		case "/v1/usernames/users":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{"id": 7, "name": "scout"}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	ctx := context.Background()

	byID, err := client.ResolveAccount(ctx, "#42")
	if err != nil {
		t.Fatalf("resolve by id: %v", err)
	}
	if byID.ID != 42 {
		t.Fatalf("resolved id = %d, want 42", byID.ID)
	}

	byName, err := client.ResolveAccount(ctx, "scout")
	if err != nil {
		t.Fatalf("resolve by name: %v", err)
	}
	if byName.ID != 7 {
		t.Fatalf("resolved id = %d, want 7", byName.ID)
	}

	if _, err := client.ResolveAccount(ctx, "#not-a-number"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for malformed id ref", err)
	}
	if _, err := client.ResolveAccount(ctx, "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for blank ref", err)
	}
}

func TestRateLimited(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.Presences(context.Background(), []int64{42})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestUserInfoNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.UserInfo(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>maintenance</html>"},
		{"missing data key", `{"something":"else"}`},
		{"null data", `{"data":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := client.GroupRoles(context.Background(), 42)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestPresencesEnvelope(t *testing.T) {
	place := int64(4238077359)
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/presence/users" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"userPresences": []map[string]any{
				{"userId": 42, "userPresenceType": PresenceInGame, "placeId": place, "lastLocation": "Fort"},
				{"userId": 7, "userPresenceType": PresenceOffline},
			},
		})
	}))

	presences, err := client.Presences(context.Background(), []int64{42, 7})
	if err != nil {
		t.Fatalf("presences: %v", err)
	}
	if len(presences) != 2 {
		t.Fatalf("got %d presences, want 2", len(presences))
	}
	if presences[0].PlaceID == nil || *presences[0].PlaceID != place {
		t.Fatalf("presence place = %v, want %d", presences[0].PlaceID, place)
	}
	if presences[1].PlaceID != nil {
		t.Fatal("offline presence has a place id")
	}
}

func TestPresenceCookieHeader(t *testing.T) {
	t.Setenv("TEST_ROBLOX_COOKIE", "secret-cookie")
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		_ = json.NewEncoder(w).Encode(map[string]any{"userPresences": []any{}})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(nil, config.RobloxConfig{
		PresenceBaseURL: srv.URL,
		CookieEnv:       "TEST_ROBLOX_COOKIE",
	})
	if _, err := client.Presences(context.Background(), []int64{42}); err != nil {
		t.Fatalf("presences: %v", err)
	}
	if gotCookie != ".ROBLOSECURITY=secret-cookie" {
		t.Fatalf("cookie header = %q", gotCookie)
	}
}
