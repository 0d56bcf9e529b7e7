/*
Package campaign defines the four source datasets for influencer campaign
analysis and the snapshot container the analysis pipeline consumes.

PURPOSE:
  This package contains the typed data model: influencer profiles, posts,
  order-tracking records, and payouts. Datasets arrive from independent
  sources (exports, uploads, generators) and may disagree with each other;
  the types here represent the data as supplied, without repair. Detecting
  and reporting inconsistencies is the reconciler's job, not the loader's.

KEY CONCEPTS IN THIS FILE (types.go):
  - Influencer: profile row, the join key owner (influencer_id)
  - Post: social post with reach/likes/comments
  - TrackingRecord: attributed orders and revenue
  - Payout: compensation terms and amount per influencer
  - Dataset: names for the four tables

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all currency amounts, never float64
  2. Fidelity: rows are stored exactly as supplied, duplicates included
  3. Type Safety: distinct ID types prevent mixing influencer/post keys

SEE ALSO:
  - load.go: Column-validated construction from tabular input
  - snapshot.go: The immutable four-table bundle
  - errors.go: Schema errors and data-quality findings
*/
package campaign

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type InfluencerID string
type PostID string
type TrackingID string

// Dataset names one of the four source tables.
type Dataset string

const (
	DatasetInfluencers Dataset = "influencers"
	DatasetPosts       Dataset = "posts"
	DatasetTracking    Dataset = "tracking"
	DatasetPayouts     Dataset = "payouts"
)

// Datasets lists all tables in load order.
func Datasets() []Dataset {
	return []Dataset{DatasetInfluencers, DatasetPosts, DatasetTracking, DatasetPayouts}
}

// =============================================================================
// INFLUENCER - Profile row, owner of the join key
// =============================================================================

// Influencer is one row of the influencer profile dataset. Platform is the
// influencer's primary platform and is the source of truth for all
// platform-level rollups, even when individual posts claim otherwise.
type Influencer struct {
	ID            InfluencerID
	Name          string
	Category      string // e.g. Fitness, Nutrition, Health
	Gender        string
	FollowerCount int64
	Platform      string
}

// =============================================================================
// POST - Social post with engagement counters
// =============================================================================

type Post struct {
	ID           PostID
	InfluencerID InfluencerID
	Platform     string
	Date         time.Time
	Reach        int64
	Likes        int64
	Comments     int64
}

// =============================================================================
// TRACKING RECORD - Attributed orders and revenue
// =============================================================================

// TrackingRecord is one attribution row. Multiple records may reference the
// same influencer; orders and revenue are additive.
type TrackingRecord struct {
	ID           TrackingID
	InfluencerID InfluencerID
	Campaign     string
	Brand        string
	Product      string
	Date         time.Time
	Orders       int64
	Revenue      decimal.Decimal
}

// =============================================================================
// PAYOUT - Compensation terms per influencer
// =============================================================================

// PayoutBasis determines how Rate is interpreted.
type PayoutBasis string

const (
	// BasisPost: Rate is currency per post.
	BasisPost PayoutBasis = "post"

	// BasisOrder: Rate is either currency per order (rate > 1) or a
	// fractional revenue share (rate <= 1).
	BasisOrder PayoutBasis = "order"
)

// Payout is one compensation row. Logically one row per influencer, but the
// 1:1 relationship is not enforced at load time; duplicates are detected
// during reconciliation. TotalPayout may be supplied by the source or left
// blank, in which case HasTotal is false and the reconciler derives it.
type Payout struct {
	InfluencerID InfluencerID
	Basis        PayoutBasis
	Rate         decimal.Decimal
	Orders       int64
	TotalPayout  decimal.Decimal
	HasTotal     bool
}
