package ingest

import (
	"context"

	"github.com/campusfind/refound/internal/domain"
)

// ItemStore persists newly reported items.
type ItemStore interface {
	Create(ctx context.Context, it domain.ItemReport, image []byte) error
}

// Matcher scores a fresh report against the opposite-type open population.
type Matcher interface {
	CrossingMatches(ctx context.Context, it domain.ItemReport) ([]domain.Match, error)
}

// Notifier delivers match notices to the owners of crossing counterparts.
type Notifier interface {
	NotifyMatch(ctx context.Context, existing, uploaded domain.ItemReport)
}
