package domain

// Dismissal records a user decision to never surface a specific candidate for
// a specific owned item again. Dismissals are append-only and never expire:
// they are a durable preference independent of item lifecycle.
type Dismissal struct {
	Identity        string
	OwnedItemID     string
	DismissedItemID string
}

// DismissedSet is the full set of dismissals for one identity, loaded once per
// discovery pass. Keys are (ownedItemID, dismissedItemID) pairs.
type DismissedSet map[DismissedPair]struct{}

// DismissedPair keys a single dismissal inside a DismissedSet.
type DismissedPair struct {
	OwnedItemID     string
	DismissedItemID string
}

// Contains reports whether the given pair was dismissed.
func (s DismissedSet) Contains(ownedItemID, dismissedItemID string) bool {
	_, ok := s[DismissedPair{OwnedItemID: ownedItemID, DismissedItemID: dismissedItemID}]
	return ok
}
