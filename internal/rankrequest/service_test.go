package rankrequest

import (
	"slices"
	"testing"

	"github.com/garrisonhq/garrison/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Roles: config.RolesConfig{
			Outsider:    "r-outsider",
			Member:      "r-member",
			LowCategory: "r-low",
		},
		Ranks: []config.Rank{
			{GroupRoleID: "201", RoleID: "r-rank1", Tier: config.TierLow, Points: 10},
			{GroupRoleID: "202", RoleID: "r-rank2", Tier: config.TierLow, Points: 25},
			{GroupRoleID: "203", RoleID: "r-rank3", Tier: config.TierMid, Points: 50},
		},
	}
}

func TestRankIndexFollowsTableOrder(t *testing.T) {
	cfg := testConfig()

	for i, rank := range cfg.Ranks {
		got, ok := rankIndex(cfg, rank.RoleID)
		if !ok || got != i {
			t.Fatalf("rankIndex(%s) = (%d, %v), want (%d, true)", rank.RoleID, got, ok, i)
		}
	}
	if _, ok := rankIndex(cfg, "r-unrelated"); ok {
		t.Fatal("unrelated role resolved to a rank")
	}
}

func TestHighestHeldRank(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name      string
		roles     []string
		wantIndex int
		wantFound bool
	}{
		{"no ranks held", []string{"r-member", "r-low"}, 0, false},
		{"single rank", []string{"r-rank2"}, 1, true},
		{"highest wins", []string{"r-rank1", "r-rank3", "r-rank2"}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := highestHeldRank(cfg, tt.roles)
			if found != tt.wantFound || (found && got != tt.wantIndex) {
				t.Fatalf("highestHeldRank(%v) = (%d, %v), want (%d, %v)",
					tt.roles, got, found, tt.wantIndex, tt.wantFound)
			}
		})
	}
}

func TestAcceptChange(t *testing.T) {
	svc := &Service{cfg: testConfig()}

	change := svc.acceptChange("r-rank2")

	wantAdd := []string{"r-rank2", "r-member", "r-low"}
	if !slices.Equal(change.Add, wantAdd) {
		t.Fatalf("add = %v, want %v", change.Add, wantAdd)
	}
	if !slices.Contains(change.Remove, "r-outsider") {
		t.Fatalf("remove = %v, want outsider placeholder included", change.Remove)
	}
	// Every rank role except the granted one is swept.
	if !slices.Contains(change.Remove, "r-rank1") || !slices.Contains(change.Remove, "r-rank3") {
		t.Fatalf("remove = %v, want other rank roles included", change.Remove)
	}
	if slices.Contains(change.Remove, "r-rank2") {
		t.Fatalf("remove = %v, granted rank must not be swept", change.Remove)
	}
}
