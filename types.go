package refound

import (
	"context"
	"time"

	"github.com/campusfind/refound/internal/domain"
)

// ItemType distinguishes the two sides of a report.
type ItemType string

// Item types.
const (
	TypeLost  ItemType = "lost"
	TypeFound ItemType = "found"
)

// ItemStatus is the lifecycle state of a report.
type ItemStatus string

// Item statuses.
const (
	StatusOpen    ItemStatus = "open"
	StatusClaimed ItemStatus = "claimed"
)

// Item is a lost-or-found report.
type Item struct {
	ID          string
	Owner       string
	Type        ItemType
	Category    string
	Description string
	Location    string
	ReportedAt  time.Time
	Status      ItemStatus
	ClaimedBy   string
	ClaimedAt   time.Time
	MatchedWith string
}

// Report carries a new item report into Client.Report.
type Report struct {
	Type        ItemType
	Category    string
	Description string
	Location    string
	ReportedAt  time.Time // zero means "now"
	Image       []byte
}

// Match is one scored match suggestion.
type Match struct {
	YourItem  Item
	Candidate Item
	Score     float64
}

// MatchedPair joins a claimed report with its resolution counterpart.
// Counterpart is nil when the other side has since been deleted.
type MatchedPair struct {
	Item        Item
	Counterpart *Item
}

// Notification is a message for a single recipient.
type Notification struct {
	ID            string
	Kind          string
	Title         string
	Message       string
	ItemID        string
	MatchedItemID string
	Read          bool
	CreatedAt     time.Time
}

// Inbox is a notification listing with its unread count.
type Inbox struct {
	Notifications []Notification
	UnreadCount   int
}

// EmbeddingResult carries the feature vector and token usage.
type EmbeddingResult struct {
	Vector       []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder turns an image into a fixed-length feature vector.
type Embedder interface {
	Embed(ctx context.Context, image []byte) (EmbeddingResult, error)
}

func itemFromDomain(it domain.ItemReport) Item {
	return Item{
		ID:          it.ID,
		Owner:       it.Owner,
		Type:        ItemType(it.Type),
		Category:    it.Category,
		Description: it.Description,
		Location:    it.Location,
		ReportedAt:  it.ReportedAt,
		Status:      ItemStatus(it.Status),
		ClaimedBy:   it.ClaimedBy,
		ClaimedAt:   it.ClaimedAt,
		MatchedWith: it.MatchedWith,
	}
}

func matchFromDomain(m domain.Match) Match {
	return Match{
		YourItem:  itemFromDomain(m.YourItem),
		Candidate: itemFromDomain(m.Candidate),
		Score:     m.Score,
	}
}

func notificationFromDomain(n domain.Notification) Notification {
	return Notification{
		ID:            n.ID,
		Kind:          string(n.Kind),
		Title:         n.Title,
		Message:       n.Message,
		ItemID:        n.ItemID,
		MatchedItemID: n.MatchedItemID,
		Read:          n.Read,
		CreatedAt:     n.CreatedAt,
	}
}
