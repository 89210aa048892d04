package token_test

import (
	"testing"

	"github.com/voyago/travelbook/pkg/token"
)

func TestParseRoleIsCaseSensitive(t *testing.T) {
	if _, err := token.ParseRole("ADMIN"); err != nil {
		t.Errorf("ParseRole(ADMIN): %v", err)
	}
	for _, bad := range []string{"admin", "Admin", "ADMIN ", "SUPERUSER", ""} {
		if _, err := token.ParseRole(bad); err == nil {
			t.Errorf("ParseRole(%q) accepted a non-canonical role", bad)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := map[string]token.Role{
		"traveler":         token.RoleTraveler,
		"  Travel_Agent ":  token.RoleTravelAgent,
		"HOTEL_MANAGER":    token.RoleHotelManager,
	}
	for in, want := range cases {
		got, err := token.NormalizeRole(in)
		if err != nil {
			t.Errorf("NormalizeRole(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := token.NormalizeRole("wizard"); err == nil {
		t.Error("NormalizeRole(wizard) accepted a role outside the closed set")
	}
}

func TestParseRoleList(t *testing.T) {
	roles, err := token.ParseRoleList("ADMIN, TRAVELER")
	if err != nil {
		t.Fatalf("ParseRoleList: %v", err)
	}
	if len(roles) != 2 || roles[0] != token.RoleAdmin || roles[1] != token.RoleTraveler {
		t.Fatalf("ParseRoleList = %v", roles)
	}

	if _, err := token.ParseRoleList("ADMIN,SUPERUSER"); err == nil {
		t.Error("list with an unknown entry was accepted")
	}
	if _, err := token.ParseRoleList(""); err == nil {
		t.Error("empty list was accepted")
	}
}

func TestAnyMatch(t *testing.T) {
	traveler := []token.Role{token.RoleTraveler}

	if !token.AnyMatch(traveler, []token.Role{token.RoleAdmin, token.RoleTraveler}) {
		t.Error("TRAVELER should satisfy {ADMIN, TRAVELER}")
	}
	if token.AnyMatch(traveler, []token.Role{token.RoleAdmin}) {
		t.Error("TRAVELER should not satisfy {ADMIN}")
	}
	if token.AnyMatch(nil, []token.Role{token.RoleAdmin}) {
		t.Error("empty role set should never match")
	}
}
