package authclient

import "github.com/google/uuid"

// NewNotificationID returns a random (v4) UUID string.
func NewNotificationID() string {
	return uuid.NewString()
}

// IsNotificationID reports whether id looks like an id minted by NewNotificationID.
func IsNotificationID(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return parsed.Version() == 4
}
