package access

import (
	"testing"

	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"
)

func TestCanView(t *testing.T) {
	owner := &users.User{ID: 1}
	admin := &users.User{ID: 2, Role: "admin"}
	premium := &users.User{ID: 3, IsPremium: true}
	free := &users.User{ID: 4}

	publicFree := lessons.Lesson{CreatedByID: 1, Visibility: lessons.VisibilityPublic, AccessLevel: lessons.AccessFree}
	publicPremium := lessons.Lesson{CreatedByID: 1, Visibility: lessons.VisibilityPublic, AccessLevel: lessons.AccessPremium}
	private := lessons.Lesson{CreatedByID: 1, Visibility: lessons.VisibilityPrivate, AccessLevel: lessons.AccessFree}

	tests := []struct {
		name   string
		viewer *users.User
		lesson lessons.Lesson
		want   Decision
	}{
		{"anonymous sees public free", nil, publicFree, Decision{Allowed: true}},
		{"anonymous blocked from premium", nil, publicPremium, Decision{RequiresUpgrade: true}},
		{"anonymous blocked from private", nil, private, Decision{}},
		{"free user blocked from premium", free, publicPremium, Decision{RequiresUpgrade: true}},
		{"premium user sees premium", premium, publicPremium, Decision{Allowed: true}},
		{"free user blocked from someone's private", free, private, Decision{}},
		{"owner sees own private", owner, private, Decision{Allowed: true}},
		{"owner sees own premium without the tier", owner, publicPremium, Decision{Allowed: true}},
		{"admin sees private", admin, private, Decision{Allowed: true}},
		{"admin sees premium", admin, publicPremium, Decision{Allowed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.viewer, tt.lesson); got != tt.want {
				t.Errorf("CanView() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCanAssignTier(t *testing.T) {
	premium := users.User{ID: 3, IsPremium: true}
	free := users.User{ID: 4}

	if !CanAssignTier(free, lessons.AccessFree) {
		t.Error("free tier should be open to everyone")
	}
	if CanAssignTier(free, lessons.AccessPremium) {
		t.Error("premium tier should be closed to free accounts")
	}
	if !CanAssignTier(premium, lessons.AccessPremium) {
		t.Error("premium tier should be open to premium accounts")
	}
}

func TestCanModerate(t *testing.T) {
	lesson := lessons.Lesson{CreatedByID: 1}

	if !CanModerate(users.User{ID: 1}, lesson) {
		t.Error("owners moderate their own lessons")
	}
	if !CanModerate(users.User{ID: 9, Role: "admin"}, lesson) {
		t.Error("admins moderate any lesson")
	}
	if CanModerate(users.User{ID: 9}, lesson) {
		t.Error("other users must not moderate")
	}
}
