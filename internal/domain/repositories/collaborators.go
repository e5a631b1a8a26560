package repositories

import "context"

// TeamLocker serializes writers of the same team keys.
type TeamLocker interface {
	// Lock blocks until every key is held or ctx is done. The returned
	// func releases all keys and is safe to call once.
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// CredentialRevoker revokes an account credential in the identity system.
// It runs outside any record store transaction.
type CredentialRevoker interface {
	Revoke(ctx context.Context, uid string) error
}

// ReviewReminder is a pending-review notice for one reviewer.
type ReviewReminder struct {
	ReviewerID string
	SprintID   string
	TeamID     string
	Pending    int
}

// ReminderNotifier delivers review reminders.
type ReminderNotifier interface {
	Notify(ctx context.Context, reminders []ReviewReminder) error
}
