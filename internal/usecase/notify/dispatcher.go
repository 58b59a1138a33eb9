// Package notify implements the notification dispatcher and the
// recipient-facing notification API.
//
// Dispatch is best-effort by contract: a failed notification write is logged
// and swallowed, never propagated as a failure of the upload or claim that
// triggered it.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
	"github.com/campusfind/refound/internal/metrics"
)

// Service creates notifications and serves the notification API.
type Service struct {
	store  Store
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// New creates a notification service.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Dispatch creates a notification for recipient. Every threshold crossing
// dispatches anew: repeated uploads of similar items repeat the notification
// on purpose, since conditions may have changed in between.
// Failures are logged and never returned.
func (s *Service) Dispatch(
	ctx context.Context, recipient string, kind domain.NotificationKind,
	title, message, itemID, matchedItemID string,
) {
	n := domain.Notification{
		ID:            s.newID(),
		Recipient:     recipient,
		Kind:          kind,
		Title:         title,
		Message:       message,
		ItemID:        itemID,
		MatchedItemID: matchedItemID,
		CreatedAt:     s.now(),
	}

	if err := s.store.Create(ctx, n); err != nil {
		s.logger.Error("failed to create notification",
			zap.String("recipient", recipient),
			zap.String("kind", string(kind)),
			zap.String("item_id", itemID),
			zap.Error(err),
		)
		return
	}

	metrics.NotificationsCreatedTotal.WithLabelValues(string(kind)).Inc()
}

// NotifyMatch tells the owner of an existing report that a newly uploaded
// report of the opposite type crossed the match threshold against theirs.
func (s *Service) NotifyMatch(ctx context.Context, existing, uploaded domain.ItemReport) {
	var message string
	if uploaded.Type == domain.TypeLost {
		message = fmt.Sprintf(
			"Someone reported a lost %s that matches your found item. Check your dashboard to see if it's theirs!",
			uploaded.Category,
		)
	} else {
		message = fmt.Sprintf(
			"Someone found a %s that matches your lost item. Check your dashboard to see if it's yours!",
			uploaded.Category,
		)
	}

	s.Dispatch(ctx, existing.Owner, domain.KindMatch,
		"It's a match!", message, existing.ID, uploaded.ID)
}

// NotifyClaim tells the owner of the claimed-against report that someone
// claimed it as the counterpart of their own item.
func (s *Service) NotifyClaim(ctx context.Context, matched, owned domain.ItemReport) {
	message := fmt.Sprintf(
		"Someone claimed your %s %s. They believe it matches their item. Please coordinate with them through the platform.",
		matched.Type, matched.Category,
	)

	s.Dispatch(ctx, matched.Owner, domain.KindClaim,
		"Your item was claimed", message, matched.ID, owned.ID)
}
