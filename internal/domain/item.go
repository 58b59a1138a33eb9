package domain

import "time"

// ItemType distinguishes the two sides of a report.
type ItemType string

const (
	// TypeLost marks an item reported as lost.
	TypeLost ItemType = "lost"
	// TypeFound marks an item reported as found.
	TypeFound ItemType = "found"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == TypeLost || t == TypeFound
}

// Opposite returns the matching counterpart type.
func (t ItemType) Opposite() ItemType {
	if t == TypeLost {
		return TypeFound
	}
	return TypeLost
}

// ItemStatus is the lifecycle state of a report.
type ItemStatus string

const (
	// StatusOpen is the initial state; open items participate in matching.
	StatusOpen ItemStatus = "open"
	// StatusClaimed is terminal; claimed items never re-enter matching.
	StatusClaimed ItemStatus = "claimed"
)

// ItemReport is a single lost-or-found report.
//
// The engine only ever mutates Status, ClaimedBy, ClaimedAt and MatchedWith;
// the descriptive fields and the feature vector belong to the reporting owner.
// MatchedWith is symmetric: if A.MatchedWith == B.ID then B.MatchedWith == A.ID,
// and both sides transition to claimed in the same storage operation.
type ItemReport struct {
	ID          string
	Owner       string
	Type        ItemType
	Category    string
	Description string
	Location    string
	ReportedAt  time.Time
	Vector      []float32
	ImageType   string

	Status      ItemStatus
	ClaimedBy   string
	ClaimedAt   time.Time
	MatchedWith string
}

// IsOpen reports whether the item still participates in matching.
func (i ItemReport) IsOpen() bool { return i.Status == StatusOpen }
