// Package ingest turns an uploaded photo and its metadata into a stored item
// report, then runs the ingestion-time match scan.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
)

// Params carries a new item report into Ingest.
type Params struct {
	Owner       string
	Type        domain.ItemType
	Category    string
	Description string
	Location    string
	ReportedAt  time.Time // zero means "now"
	Image       []byte
}

// Service ingests new item reports.
type Service struct {
	items      ItemStore
	matcher    Matcher
	notifier   Notifier
	embedder   domain.ImageEmbedder
	vectorDims int
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
}

// New creates an ingest service. vectorDims pins the accepted feature vector
// length; 0 disables the dimension check.
func New(
	items ItemStore, matcher Matcher, notifier Notifier,
	embedder domain.ImageEmbedder, vectorDims int, logger *zap.Logger,
) *Service {
	return &Service{
		items:      items,
		matcher:    matcher,
		notifier:   notifier,
		embedder:   embedder,
		vectorDims: vectorDims,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Ingest validates and stores a new report, then scans the opposite-type
// open population: the owner of every counterpart whose score crosses the
// match threshold gets a match notification, and the best crossing match (if
// any) is returned alongside the stored report.
//
// The scan and its notifications are best-effort: once the report is
// persisted, their failure is logged, not returned.
func (s *Service) Ingest(ctx context.Context, p Params) (domain.ItemReport, *domain.Match, error) {
	if err := validate(p); err != nil {
		return domain.ItemReport{}, nil, err
	}

	image, err := normalizeImage(p.Image)
	if err != nil {
		return domain.ItemReport{}, nil, err
	}

	result, err := s.embedder.Embed(ctx, image)
	if err != nil {
		return domain.ItemReport{}, nil, fmt.Errorf("embed image: %w", err)
	}
	// The provider owns wire-format normalization; the engine insists on a
	// finite, non-empty, fixed-length vector and refuses to zero-fill.
	if err := domain.ValidateVector(result.Vector, s.vectorDims); err != nil {
		return domain.ItemReport{}, nil, fmt.Errorf("provider vector rejected: %w", err)
	}

	reportedAt := p.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = s.now()
	}

	it := domain.ItemReport{
		ID:          s.newID(),
		Owner:       p.Owner,
		Type:        p.Type,
		Category:    p.Category,
		Description: p.Description,
		Location:    p.Location,
		ReportedAt:  reportedAt,
		Vector:      result.Vector,
		ImageType:   "image/jpeg",
		Status:      domain.StatusOpen,
	}

	if err := s.items.Create(ctx, it, image); err != nil {
		return domain.ItemReport{}, nil, fmt.Errorf("store item: %w", err)
	}

	s.logger.Info("item report ingested",
		zap.String("item_id", it.ID),
		zap.String("type", string(it.Type)),
		zap.String("category", it.Category),
		zap.Int("dimensions", len(it.Vector)),
	)

	best := s.scanAndNotify(ctx, it)
	return it, best, nil
}

func (s *Service) scanAndNotify(ctx context.Context, it domain.ItemReport) *domain.Match {
	matches, err := s.matcher.CrossingMatches(ctx, it)
	if err != nil {
		s.logger.Warn("ingestion match scan failed",
			zap.String("item_id", it.ID),
			zap.Error(err),
		)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	for _, m := range matches {
		s.notifier.NotifyMatch(ctx, m.Candidate, it)
	}
	return &matches[0]
}

func validate(p Params) error {
	if !p.Type.Valid() {
		return fmt.Errorf("type must be lost or found: %w", domain.ErrInvalidInput)
	}
	if p.Owner == "" {
		return fmt.Errorf("owner is required: %w", domain.ErrInvalidInput)
	}
	if p.Category == "" {
		return fmt.Errorf("category is required: %w", domain.ErrInvalidInput)
	}
	if len(p.Image) == 0 {
		return fmt.Errorf("image is required: %w", domain.ErrInvalidInput)
	}
	return nil
}
