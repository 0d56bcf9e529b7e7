/*
Package store defines persistence for the four campaign datasets.

PURPOSE:
  The analysis engine is stateless; something still has to hold uploaded
  datasets between requests. DatasetStore is that something. Implementations
  replace whole tables at a time (an upload supersedes the previous version
  of its dataset) and hand the pipeline a fully-materialized snapshot, so a
  concurrent upload can never produce a half-old, half-new analysis.

IMPLEMENTATIONS:
  store/memory: process-local, for tests and ephemeral serving
  store/sqlite: SQLite-backed, survives restarts
*/
package store

import (
	"context"

	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// DatasetStore holds the four datasets between analysis requests. Replace
// methods swap a whole table atomically; Snapshot returns an independent
// copy of all four.
type DatasetStore interface {
	ReplaceInfluencers(ctx context.Context, rows []campaign.Influencer) error
	ReplacePosts(ctx context.Context, rows []campaign.Post) error
	ReplaceTracking(ctx context.Context, rows []campaign.TrackingRecord) error
	ReplacePayouts(ctx context.Context, rows []campaign.Payout) error

	// Snapshot materializes all four tables. The returned snapshot is the
	// caller's to keep; later Replace calls do not mutate it.
	Snapshot(ctx context.Context) (*campaign.Snapshot, error)

	// Reset clears all four tables.
	Reset(ctx context.Context) error

	Close() error
}
