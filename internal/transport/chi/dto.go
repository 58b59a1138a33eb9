package chi

import (
	"time"

	"github.com/campusfind/refound/internal/domain"
	"github.com/campusfind/refound/internal/usecase/items"
)

// ErrorCode identifies an error class in API responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeValidationFailed     ErrorCode = "validation_failed"
	CodeUnauthorized         ErrorCode = "unauthorized"
	CodeForbidden            ErrorCode = "forbidden"
	CodeItemNotFound         ErrorCode = "item_not_found"
	CodeNotificationNotFound ErrorCode = "notification_not_found"
	CodeClaimConflict        ErrorCode = "claim_conflict"
	CodeEmbeddingProvider    ErrorCode = "embedding_provider_error"
	CodeEmbeddingUnavailable ErrorCode = "embedding_unavailable"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the API error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ItemResponse is an item report in API responses. The feature vector never
// leaves the engine.
type ItemResponse struct {
	ID          string     `json:"id"`
	Owner       string     `json:"owner"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	ReportedAt  time.Time  `json:"reported_at"`
	Status      string     `json:"status"`
	ClaimedBy   string     `json:"claimed_by,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	MatchedWith string     `json:"matched_with,omitempty"`
}

// IngestResponse is the result of reporting a new item.
type IngestResponse struct {
	Item      ItemResponse   `json:"item"`
	BestMatch *MatchResponse `json:"best_match,omitempty"`
}

// MatchResponse is one scored match suggestion.
type MatchResponse struct {
	YourItem  ItemResponse `json:"your_item"`
	Candidate ItemResponse `json:"candidate"`
	Score     float64      `json:"score"`
}

// MatchListResponse is the match discovery result.
type MatchListResponse struct {
	Matches []MatchResponse `json:"matches"`
	Total   int             `json:"total"`
}

// MatchedPairResponse joins a claimed item with its resolution counterpart.
type MatchedPairResponse struct {
	Item        ItemResponse  `json:"item"`
	Counterpart *ItemResponse `json:"counterpart,omitempty"`
}

// DismissRequest names the candidate to suppress for an owned item.
type DismissRequest struct {
	DismissedItemID string `json:"dismissed_item_id"`
}

// ClaimRequest names the caller's own item backing the claim.
type ClaimRequest struct {
	OwnedItemID string `json:"owned_item_id"`
}

// NotificationResponse is one notification in API responses.
type NotificationResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	ItemID        string    `json:"item_id,omitempty"`
	MatchedItemID string    `json:"matched_item_id,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}

// InboxResponse is a notification listing with its unread count.
type InboxResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func itemToDTO(it domain.ItemReport) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID,
		Owner:       it.Owner,
		Type:        string(it.Type),
		Category:    it.Category,
		Description: it.Description,
		Location:    it.Location,
		ReportedAt:  it.ReportedAt.UTC(),
		Status:      string(it.Status),
		ClaimedBy:   it.ClaimedBy,
		MatchedWith: it.MatchedWith,
	}
	if !it.ClaimedAt.IsZero() {
		t := it.ClaimedAt.UTC()
		resp.ClaimedAt = &t
	}
	return resp
}

func matchToDTO(m domain.Match) MatchResponse {
	return MatchResponse{
		YourItem:  itemToDTO(m.YourItem),
		Candidate: itemToDTO(m.Candidate),
		Score:     m.Score,
	}
}

func pairToDTO(p items.MatchedPair) MatchedPairResponse {
	resp := MatchedPairResponse{Item: itemToDTO(p.Item)}
	if p.Counterpart != nil {
		c := itemToDTO(*p.Counterpart)
		resp.Counterpart = &c
	}
	return resp
}

func notificationToDTO(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Kind:          string(n.Kind),
		Title:         n.Title,
		Message:       n.Message,
		ItemID:        n.ItemID,
		MatchedItemID: n.MatchedItemID,
		Read:          n.Read,
		CreatedAt:     n.CreatedAt.UTC(),
	}
}
