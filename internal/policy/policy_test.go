package policy

import (
	"testing"

	"mooncookies-cli/internal/model"
)

func TestCanCreate(t *testing.T) {
	cases := []struct {
		name string
		user *model.User
		want bool
	}{
		{"astronaut", &model.User{ID: "u1", Role: model.RoleAstronaut}, true},
		{"customer", &model.User{ID: "u2", Role: model.RoleCustomer}, false},
		{"unknown role", &model.User{ID: "u3", Role: "baker"}, false},
		{"empty role", &model.User{ID: "u4"}, false},
		{"absent user", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanCreate(tc.user); got != tc.want {
				t.Fatalf("CanCreate(%v) = %v, want %v", tc.user, got, tc.want)
			}
		})
	}
}

func TestCanMutate(t *testing.T) {
	owner := &model.User{ID: "u1", Role: model.RoleAstronaut}
	other := &model.User{ID: "u2", Role: model.RoleAstronaut}

	owned := model.Cookie{ID: "c1", Owner: &model.User{ID: "u1"}}
	ownedByRef := model.Cookie{ID: "c2", OwnerID: "u1"}
	ownerless := model.Cookie{ID: "c3"}

	cases := []struct {
		name   string
		user   *model.User
		cookie model.Cookie
		want   bool
	}{
		{"owner via expanded owner", owner, owned, true},
		{"owner via id ref", owner, ownedByRef, true},
		{"non-owner", other, owned, false},
		{"ownerless cookie", owner, ownerless, false},
		{"absent user", nil, owned, false},
		{"user without id", &model.User{}, owned, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMutate(tc.user, tc.cookie); got != tc.want {
				t.Fatalf("CanMutate = %v, want %v", got, tc.want)
			}
		})
	}
}
