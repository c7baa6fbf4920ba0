package domain

import "time"

// Exit codes shared by the batch commands. The mapping is deliberate:
// structural corruption must block CI, incomplete coverage must not.
const (
	// ExitOK signals full success.
	ExitOK = 0

	// ExitPartial signals a bounded pass left gaps behind, or a
	// warning-level verification finding.
	ExitPartial = 1

	// ExitUnresolved signals unresolvable input rows on backfill, or a
	// structural failure on verification.
	ExitUnresolved = 2

	// ExitSystem signals an infrastructure failure (database missing,
	// cannot open connection). Never conflated with data findings.
	ExitSystem = 3
)

// CheckStatus is the overall outcome of an integrity verification.
type CheckStatus string

const (
	// StatusPass means no defects were found.
	StatusPass CheckStatus = "pass"

	// StatusWarn means coverage gaps exist but nothing is corrupted.
	StatusWarn CheckStatus = "warn"

	// StatusFail means a structural invariant has been violated.
	StatusFail CheckStatus = "fail"
)

// BackfillOptions configures one Chain Builder pass.
type BackfillOptions struct {
	// SourceType restricts the pass to one source type when non-empty.
	SourceType SourceType

	// Limit caps the number of rows examined per repair step.
	// Non-positive means the service default.
	Limit int

	// DryRun reports what would change without writing.
	DryRun bool
}

// BackfillReport is the typed result of one Chain Builder pass.
// Expected data-quality conditions are counts here, never errors.
type BackfillReport struct {
	SourceType SourceType `json:"source_type,omitempty"`
	Limit      int        `json:"limit"`
	DryRun     bool       `json:"dry_run"`

	// HashesPaired counts content rows whose missing hash was filled
	// from a matching document chunk.
	HashesPaired int `json:"hashes_paired"`

	// HashesSynthesized counts content rows whose hash was derived from
	// their own body because no document pairing existed.
	HashesSynthesized int `json:"hashes_synthesized"`

	// ContentCreated counts content rows synthesized from document chunks.
	ContentCreated int `json:"content_created"`

	// AlreadyPresent counts inserts skipped because a concurrent writer
	// (or an earlier pass) created the row first.
	AlreadyPresent int `json:"already_present"`

	// Unresolved counts document chunks that cannot be backfilled
	// because their extracted text is empty.
	Unresolved int `json:"unresolved"`

	// RemainingGaps counts rows still missing a hash or a content row
	// after the bounded pass.
	RemainingGaps int `json:"remaining_gaps"`
}

// Changed returns the number of rows the pass modified or created.
func (r BackfillReport) Changed() int {
	return r.HashesPaired + r.HashesSynthesized + r.ContentCreated
}

// ExitCode maps the report to a process exit code.
func (r BackfillReport) ExitCode() int {
	switch {
	case r.Unresolved > 0:
		return ExitUnresolved
	case r.RemainingGaps > 0:
		return ExitPartial
	default:
		return ExitOK
	}
}

// VerifyCounts holds the per-check results of an integrity verification.
type VerifyCounts struct {
	// DocsNullSHA256 counts document chunks missing a content hash.
	// Hard failure: these cannot be deduplicated or linked.
	DocsNullSHA256 int `json:"docs_null_sha256"`

	// DocDupeKeys counts (sha256, chunk_index) groups claimed by more
	// than one document chunk. Hard failure.
	DocDupeKeys int `json:"doc_sha256_dupe_keys"`

	// ContentDupeBusinessKeys counts (source_type, source_id) groups
	// with more than one content row. Hard failure: the business-key
	// invariant has been violated.
	ContentDupeBusinessKeys int `json:"content_dupe_business_keys"`

	// ContentDupeSHAKeys counts (sha256, chunk_index) groups with more
	// than one content row. Hard failure.
	ContentDupeSHAKeys int `json:"content_sha256_dupe_keys"`

	// DocsWithoutContent counts anchor chunks with a hash but no
	// matching content row. Warning: missing backfill work.
	DocsWithoutContent int `json:"docs_without_content"`

	// ContentWithoutDoc counts non-email content rows whose hash matches
	// no document chunk. Warning: tracked as a potential defect.
	ContentWithoutDoc int `json:"content_without_doc"`

	// ContentWithoutEmbedding counts rows flagged ready that have no
	// embedding for the expected model. Warning: missing work.
	ContentWithoutEmbedding int `json:"content_without_embedding"`
}

// Status derives the overall outcome from the counts.
func (c VerifyCounts) Status() CheckStatus {
	if c.DocsNullSHA256 > 0 || c.DocDupeKeys > 0 ||
		c.ContentDupeBusinessKeys > 0 || c.ContentDupeSHAKeys > 0 {
		return StatusFail
	}
	if c.DocsWithoutContent > 0 || c.ContentWithoutDoc > 0 ||
		c.ContentWithoutEmbedding > 0 {
		return StatusWarn
	}
	return StatusPass
}

// VerifyReport is the typed result of an integrity verification.
type VerifyReport struct {
	DatabasePath string       `json:"database_path"`
	Model        string       `json:"model"`
	CheckedAt    time.Time    `json:"checked_at"`
	Counts       VerifyCounts `json:"counts"`
	Status       CheckStatus  `json:"status"`
}

// ExitCode maps the report to a process exit code.
func (r VerifyReport) ExitCode() int {
	switch r.Status {
	case StatusFail:
		return ExitUnresolved
	case StatusWarn:
		return ExitPartial
	default:
		return ExitOK
	}
}

// EmbedOptions configures one embedding linker pass.
type EmbedOptions struct {
	// Model overrides the configured embedding model when non-empty.
	Model string

	// Limit caps the number of rows linked. Non-positive means the
	// service default.
	Limit int
}

// EmbedReport is the typed result of one embedding linker pass.
type EmbedReport struct {
	Model  string `json:"model"`
	Limit  int    `json:"limit"`
	Linked int    `json:"linked"`

	// AlreadyPresent counts rows that gained an embedding between
	// listing and writing (race won by another linker).
	AlreadyPresent int `json:"already_present"`

	// Failed counts rows the provider could not embed. The pass
	// continues past individual failures.
	Failed int `json:"failed"`

	// Remaining counts ready rows still lacking an embedding after the
	// bounded pass.
	Remaining int `json:"remaining"`
}

// ExitCode maps the report to a process exit code.
func (r EmbedReport) ExitCode() int {
	if r.Failed > 0 || r.Remaining > 0 {
		return ExitPartial
	}
	return ExitOK
}

// RetryPolicy makes the retry contract for transiently failing writes
// visible at the call site: which attempts, with what backoff.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// Backoff is the base delay between tries; the delay grows
	// linearly with the attempt number.
	Backoff time.Duration
}

// DefaultRetryPolicy suits short single-writer contention on a local
// SQLite file.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 50 * time.Millisecond}
