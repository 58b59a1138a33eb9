package domain

import "time"

// NotificationKind categorizes notifications.
type NotificationKind string

const (
	// KindMatch is sent when a newly reported item crosses the match
	// threshold against an existing report.
	KindMatch NotificationKind = "match"
	// KindClaim is sent to the owner of an item that was claimed against.
	KindClaim NotificationKind = "claim"
	// KindSystem is reserved for operator-issued notices.
	KindSystem NotificationKind = "system"
)

// Notification is a message for a single recipient. The engine only creates
// notifications; read-state transitions belong to the notification API.
type Notification struct {
	ID            string
	Recipient     string
	Kind          NotificationKind
	Title         string
	Message       string
	ItemID        string
	MatchedItemID string
	Read          bool
	CreatedAt     time.Time
}
