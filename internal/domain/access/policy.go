package access

import (
	"lessons-app/internal/domain/lessons"
	"lessons-app/internal/domain/users"
)

// Decision says whether a viewer may open a lesson, and why not when they
// can't.
type Decision struct {
	Allowed         bool
	RequiresUpgrade bool
}

// CanView applies the lesson visibility and premium-tier rules. viewer is
// nil for anonymous requests. Owners and admins always see their own
// content.
func CanView(viewer *users.User, lesson lessons.Lesson) Decision {
	isOwner := viewer != nil && viewer.ID == lesson.CreatedByID
	isAdmin := viewer != nil && viewer.Role == "admin"

	if lesson.Visibility != lessons.VisibilityPublic && !isOwner && !isAdmin {
		return Decision{}
	}

	if lesson.AccessLevel == lessons.AccessPremium && !isOwner && !isAdmin {
		if viewer == nil || !viewer.IsPremium {
			return Decision{RequiresUpgrade: true}
		}
	}

	return Decision{Allowed: true}
}

// CanAssignTier reports whether an author may put a lesson on the given
// access tier. Premium tier is reserved for premium accounts.
func CanAssignTier(author users.User, accessLevel string) bool {
	if accessLevel != lessons.AccessPremium {
		return true
	}
	return author.IsPremium
}

// CanModerate reports whether a user may edit or delete someone's lesson.
func CanModerate(u users.User, lesson lessons.Lesson) bool {
	return u.ID == lesson.CreatedByID || u.Role == "admin"
}
