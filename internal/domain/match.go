package domain

// MatchThreshold is the minimum combined score for a pair to count as a match,
// both for discovery results and for ingestion-time notifications.
const MatchThreshold = 50.0

// Match is a scored pairing between a seeking item and a candidate of the
// opposite type.
type Match struct {
	YourItem  ItemReport
	Candidate ItemReport
	Score     float64
}
