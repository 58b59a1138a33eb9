package item

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusfind/refound/internal/domain"
)

// Hash field names for item records.
const (
	fieldID          = "id"
	fieldOwner       = "owner"
	fieldType        = "type"
	fieldCategory    = "category"
	fieldDescription = "description"
	fieldLocation    = "location"
	fieldReportedAt  = "reported_at"
	fieldVector      = "vector"
	fieldImageType   = "image_type"
	fieldStatus      = "status"
	fieldClaimedBy   = "claimed_by"
	fieldClaimedAt   = "claimed_at"
	fieldMatchedWith = "matched_with"
)

func encodeItem(it domain.ItemReport) (map[string]string, error) {
	vec, err := json.Marshal(it.Vector)
	if err != nil {
		return nil, fmt.Errorf("marshal vector: %w", err)
	}

	fields := map[string]string{
		fieldID:          it.ID,
		fieldOwner:       it.Owner,
		fieldType:        string(it.Type),
		fieldCategory:    it.Category,
		fieldDescription: it.Description,
		fieldLocation:    it.Location,
		fieldReportedAt:  it.ReportedAt.UTC().Format(time.RFC3339Nano),
		fieldVector:      string(vec),
		fieldImageType:   it.ImageType,
		fieldStatus:      string(it.Status),
	}
	if it.ClaimedBy != "" {
		fields[fieldClaimedBy] = it.ClaimedBy
	}
	if !it.ClaimedAt.IsZero() {
		fields[fieldClaimedAt] = it.ClaimedAt.UTC().Format(time.RFC3339Nano)
	}
	if it.MatchedWith != "" {
		fields[fieldMatchedWith] = it.MatchedWith
	}
	return fields, nil
}

func decodeItem(id string, fields map[string]string) (domain.ItemReport, error) {
	it := domain.ItemReport{
		ID:          id,
		Owner:       fields[fieldOwner],
		Type:        domain.ItemType(fields[fieldType]),
		Category:    fields[fieldCategory],
		Description: fields[fieldDescription],
		Location:    fields[fieldLocation],
		ImageType:   fields[fieldImageType],
		Status:      domain.ItemStatus(fields[fieldStatus]),
		ClaimedBy:   fields[fieldClaimedBy],
		MatchedWith: fields[fieldMatchedWith],
	}

	if raw := fields[fieldReportedAt]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return domain.ItemReport{}, fmt.Errorf("parse reported_at %q: %w", raw, err)
		}
		it.ReportedAt = t
	}
	if raw := fields[fieldClaimedAt]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return domain.ItemReport{}, fmt.Errorf("parse claimed_at %q: %w", raw, err)
		}
		it.ClaimedAt = t
	}
	if raw := fields[fieldVector]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &it.Vector); err != nil {
			return domain.ItemReport{}, fmt.Errorf("unmarshal vector: %w", err)
		}
	}

	return it, nil
}
