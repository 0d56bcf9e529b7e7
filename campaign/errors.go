/*
errors.go - Error taxonomy for dataset loading and reconciliation

PURPOSE:
  Two distinct failure channels run through the system:

  1. Schema errors are FATAL for a load: a required column or table is
     missing, or a cell cannot be parsed at all. The pipeline does not run.
  2. Findings are NON-FATAL data-quality observations: orphaned foreign
     keys, platform mismatches, duplicate payouts. They are accumulated and
     returned alongside results, never thrown. The engine always produces
     best-effort output from non-fatal input problems.

USAGE:
  if errors.Is(err, campaign.ErrInvalidSchema) {
      // report to uploader, keep previous dataset
  }

SEE ALSO:
  - load.go: Produces SchemaError
  - analytics package: Produces Findings during reconciliation
*/
package campaign

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidSchema is returned when a dataset's columns or cell values
	// do not match the expected table layout. Fatal for that load.
	ErrInvalidSchema = errors.New("invalid dataset schema")

	// ErrUnknownDataset is returned for a dataset name outside the four tables.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrNoData is returned when analysis is requested before any
	// influencer profiles have been loaded.
	ErrNoData = errors.New("no datasets loaded")
)

// =============================================================================
// SCHEMA ERROR - Fatal load failure with actionable detail
// =============================================================================

// SchemaError reports why a tabular load was rejected. Either Missing is
// non-empty (required columns absent) or Row/Cell describe an unparseable
// value.
type SchemaError struct {
	Dataset Dataset
	Missing []string // required columns not present in the header
	Row     int      // 1-based data row of a bad cell, 0 if column-level
	Column  string
	Value   string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required columns: %s", e.Dataset, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: row %d: cannot parse %s value %q", e.Dataset, e.Row, e.Column, e.Value)
}

func (e *SchemaError) Unwrap() error { return ErrInvalidSchema }

// =============================================================================
// FINDINGS - Non-fatal data-quality observations
// =============================================================================

// Severity ranks a finding for display. No severity aborts the pipeline.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// FindingCode identifies the class of data-quality issue.
type FindingCode string

const (
	// A Post references an influencer_id with no matching profile.
	FindingOrphanPost FindingCode = "orphan_post"

	// A TrackingRecord references an influencer_id with no matching profile.
	FindingOrphanTracking FindingCode = "orphan_tracking"

	// A Payout references an influencer_id with no matching profile.
	FindingOrphanPayout FindingCode = "orphan_payout"

	// A post's platform disagrees with its influencer's primary platform.
	// Aggregation uses the influencer's platform.
	FindingPlatformMismatch FindingCode = "platform_mismatch"

	// More than one payout row for a single influencer; totals were summed.
	FindingDuplicatePayout FindingCode = "duplicate_payout"

	// A supplied total_payout diverges more than 1% from the value
	// recomputed from basis and rate. The supplied value is kept.
	FindingPayoutDivergence FindingCode = "payout_divergence"

	// A payout row had no total_payout; the value was derived from rate.
	FindingDerivedPayout FindingCode = "derived_payout"

	// An influencer has no payout row at all; cost is treated as zero and
	// ROAS becomes undefined rather than zero.
	FindingMissingPayout FindingCode = "missing_payout"

	// A row carried a negative reach, likes, comments, orders or revenue
	// value. The row is excluded from aggregates, never clamped.
	FindingNegativeValue FindingCode = "negative_value"

	// Two rows share a unique key (influencer_id, post_id or tracking_id).
	// The later row is ignored for aggregation.
	FindingDuplicateID FindingCode = "duplicate_id"
)

// Finding is a single data-quality observation tied to a subject row or
// entity. Findings are data, not errors: they ride along with results so the
// presentation layer can surface partial-data situations prominently.
type Finding struct {
	Code     FindingCode `json:"code"`
	Severity Severity    `json:"severity"`
	Dataset  Dataset     `json:"dataset"`
	Subject  string      `json:"subject"` // the row or influencer concerned
	Message  string      `json:"message"`
}

// Warn builds a warning-severity finding.
func Warn(code FindingCode, ds Dataset, subject, format string, args ...any) Finding {
	return Finding{
		Code:     code,
		Severity: SeverityWarning,
		Dataset:  ds,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Info builds an info-severity finding.
func Info(code FindingCode, ds Dataset, subject, format string, args ...any) Finding {
	return Finding{
		Code:     code,
		Severity: SeverityInfo,
		Dataset:  ds,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}
