package permissions

import (
	"github.com/google/uuid"

	"github.com/polikarpova/coursehub/internal/models"
)

// IsModerator reports whether the user belongs to the moderators group.
// The user's Groups association must be loaded.
func IsModerator(user *models.User) bool {
	for _, group := range user.Groups {
		if group.Name == models.ModeratorsGroup {
			return true
		}
	}
	return false
}

func IsAdmin(user *models.User) bool {
	return user.IsAdmin
}

func isOwner(user *models.User, ownerID *uuid.UUID) bool {
	return ownerID != nil && *ownerID == user.ID
}

// CanRetrieve allows the owner and moderators.
func CanRetrieve(user *models.User, ownerID *uuid.UUID) bool {
	return isOwner(user, ownerID) || IsModerator(user)
}

// CanUpdate allows the owner and moderators.
func CanUpdate(user *models.User, ownerID *uuid.UUID) bool {
	return isOwner(user, ownerID) || IsModerator(user)
}

// CanDelete allows the owner only. Moderators can read and update other
// users' records but never delete them.
func CanDelete(user *models.User, ownerID *uuid.UUID) bool {
	return isOwner(user, ownerID)
}

// SeesAllRecords reports whether list endpoints should skip owner scoping.
func SeesAllRecords(user *models.User) bool {
	return IsModerator(user)
}
