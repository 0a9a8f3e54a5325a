package domain

import "time"

// Stage is a state of a pipeline run.
type Stage string

// Pipeline stages, in order. Failed is terminal and reachable from
// StageDispatch and StageExtracting.
const (
	StageDispatch      Stage = "dispatch"
	StageExtracting    Stage = "extracting"
	StageScanning      Stage = "scanning"
	StageDeduplicating Stage = "deduplicating"
	StageDone          Stage = "done"
	StageFailed        Stage = "failed"
)

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// ResultSet is the deduplicated, ordered set of addresses found by one run.
// Every entry passed validation and no normalised address appears twice.
// Order is first occurrence across units in the order the extractor
// produced them.
type ResultSet struct {
	// RunID uniquely identifies the run that produced this set.
	RunID string

	// Source is the descriptor that was scanned.
	Source SourceDescriptor

	// Addresses are the unique validated addresses in first-seen order.
	Addresses []ValidatedAddress

	// Units is the number of RawTextUnits the extractor produced.
	Units int

	// CompletedAt is when the run reached StageDone.
	CompletedAt time.Time
}

// Len returns the number of addresses.
func (r *ResultSet) Len() int {
	return len(r.Addresses)
}

// IsEmpty returns true if no addresses were found.
func (r *ResultSet) IsEmpty() bool {
	return len(r.Addresses) == 0
}

// Strings returns the normalised addresses in order.
func (r *ResultSet) Strings() []string {
	out := make([]string, len(r.Addresses))
	for i, a := range r.Addresses {
		out[i] = a.Address
	}
	return out
}

// TrackOptions controls how a tracked run is delivered.
type TrackOptions struct {
	// WebhookURL overrides the configured endpoint when non-empty.
	WebhookURL string

	// SkipReport disables delivery; the result is only returned.
	SkipReport bool
}
