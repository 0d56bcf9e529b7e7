package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitraun/healthkart-influencer-dashboard/analytics"
	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func influencer(id, name, platform string) campaign.Influencer {
	return campaign.Influencer{
		ID:            campaign.InfluencerID(id),
		Name:          name,
		Category:      "Fitness",
		Gender:        "Male",
		FollowerCount: 100000,
		Platform:      platform,
	}
}

func post(id, infID, platform string, reach, likes, comments int64) campaign.Post {
	return campaign.Post{
		ID:           campaign.PostID(id),
		InfluencerID: campaign.InfluencerID(infID),
		Platform:     platform,
		Date:         time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		Reach:        reach,
		Likes:        likes,
		Comments:     comments,
	}
}

func tracking(id, infID, brand string, orders int64, revenue float64) campaign.TrackingRecord {
	return campaign.TrackingRecord{
		ID:           campaign.TrackingID(id),
		InfluencerID: campaign.InfluencerID(infID),
		Campaign:     "Summer Launch",
		Brand:        brand,
		Product:      "Whey Protein",
		Date:         time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		Orders:       orders,
		Revenue:      decimal.NewFromFloat(revenue),
	}
}

func postPayout(infID string, rate, total float64) campaign.Payout {
	return campaign.Payout{
		InfluencerID: campaign.InfluencerID(infID),
		Basis:        campaign.BasisPost,
		Rate:         decimal.NewFromFloat(rate),
		TotalPayout:  decimal.NewFromFloat(total),
		HasTotal:     true,
	}
}

func hasFinding(findings []campaign.Finding, code campaign.FindingCode, subject string) bool {
	for _, f := range findings {
		if f.Code == code && f.Subject == subject {
			return true
		}
	}
	return false
}

// =============================================================================
// LEFT JOIN SEMANTICS
// =============================================================================

func TestReconcile_ZeroActivityInfluencer_KeptWithZeroAggregates(t *testing.T) {
	// GIVEN: An influencer with no posts, tracking rows or payouts
	// WHEN: Reconciling
	// THEN: They still get a record with zero aggregates; dropping them would
	//       corrupt every population-level denominator downstream

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
	}

	rec := analytics.Reconcile(snap)
	require.Len(t, rec.Records, 1)

	r := rec.Records[0]
	assert.Equal(t, int64(0), r.Posts)
	assert.Equal(t, int64(0), r.Orders)
	assert.True(t, r.Revenue.IsZero())
	assert.True(t, r.Cost.IsZero())
	assert.False(t, r.HasPayout)
	assert.True(t, hasFinding(rec.Findings, campaign.FindingMissingPayout, "INF_001"))
}

func TestReconcile_OrphanRows_ExcludedAndReported(t *testing.T) {
	// GIVEN: Post, tracking and payout rows referencing an unknown influencer
	// WHEN: Reconciling
	// THEN: All are excluded from aggregation and each is reported as a
	//       warning; known-influencer aggregates are untouched

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Posts: []campaign.Post{
			post("POST_001", "INF_001", "Instagram", 1000, 100, 10),
			post("POST_999", "INF_404", "Instagram", 5000, 500, 50),
		},
		Tracking: []campaign.TrackingRecord{
			tracking("TRK_00001", "INF_001", "MuscleBlaze", 3, 3000),
			tracking("TRK_00999", "INF_404", "MuscleBlaze", 9, 9000),
		},
		Payouts: []campaign.Payout{
			postPayout("INF_001", 10000, 10000),
			postPayout("INF_404", 10000, 10000),
		},
	}

	rec := analytics.Reconcile(snap)
	require.Len(t, rec.Records, 1)

	assert.Equal(t, 1, rec.ExcludedPosts)
	assert.Equal(t, 1, rec.ExcludedTracking)
	assert.Equal(t, 1, rec.ExcludedPayouts)
	assert.True(t, hasFinding(rec.Findings, campaign.FindingOrphanPost, "POST_999"))
	assert.True(t, hasFinding(rec.Findings, campaign.FindingOrphanTracking, "TRK_00999"))
	assert.True(t, hasFinding(rec.Findings, campaign.FindingOrphanPayout, "INF_404"))

	r := rec.Records[0]
	assert.Equal(t, int64(1), r.Posts)
	assert.Equal(t, int64(1000), r.Reach)
	assert.Equal(t, int64(3), r.Orders)
	assert.True(t, r.Revenue.Equal(decimal.NewFromInt(3000)))
}

func TestReconcile_PlatformMismatch_ReportedButAggregated(t *testing.T) {
	// GIVEN: A post claiming YouTube for an Instagram influencer
	// WHEN: Reconciling
	// THEN: The mismatch is reported and the post still counts, under the
	//       influencer's canonical platform

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Posts:       []campaign.Post{post("POST_001", "INF_001", "YouTube", 1000, 100, 10)},
	}

	rec := analytics.Reconcile(snap)
	require.Len(t, rec.Records, 1)
	assert.True(t, hasFinding(rec.Findings, campaign.FindingPlatformMismatch, "POST_001"))
	assert.Equal(t, int64(1), rec.Records[0].Posts)
	assert.Equal(t, "Instagram", rec.Records[0].Platform)
	assert.Equal(t, 0, rec.ExcludedPosts)
}

func TestReconcile_NegativeValues_ExcludedNeverClamped(t *testing.T) {
	// GIVEN: A post with negative likes and a tracking row with negative revenue
	// WHEN: Reconciling
	// THEN: Both rows are excluded entirely; nothing is clamped to zero

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Posts: []campaign.Post{
			post("POST_001", "INF_001", "Instagram", 1000, -5, 0),
			post("POST_002", "INF_001", "Instagram", 2000, 200, 20),
		},
		Tracking: []campaign.TrackingRecord{
			tracking("TRK_00001", "INF_001", "MuscleBlaze", 4, -100),
		},
	}

	rec := analytics.Reconcile(snap)
	r := rec.Records[0]

	assert.Equal(t, 1, rec.ExcludedPosts)
	assert.Equal(t, 1, rec.ExcludedTracking)
	assert.Equal(t, int64(1), r.Posts)
	assert.Equal(t, int64(2000), r.Reach)
	assert.Equal(t, int64(0), r.Orders)
	assert.True(t, r.Revenue.IsZero())
	assert.True(t, hasFinding(rec.Findings, campaign.FindingNegativeValue, "POST_001"))
	assert.True(t, hasFinding(rec.Findings, campaign.FindingNegativeValue, "TRK_00001"))
}

func TestReconcile_DuplicateIDs_FirstRowWins(t *testing.T) {
	// GIVEN: Duplicate influencer and post IDs
	// WHEN: Reconciling
	// THEN: The first row is kept, later rows are reported and ignored

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{
			influencer("INF_001", "Rohit", "Instagram"),
			influencer("INF_001", "Imposter", "YouTube"),
		},
		Posts: []campaign.Post{
			post("POST_001", "INF_001", "Instagram", 1000, 100, 10),
			post("POST_001", "INF_001", "Instagram", 9999, 999, 99),
		},
	}

	rec := analytics.Reconcile(snap)
	require.Len(t, rec.Records, 1)
	assert.Equal(t, "Rohit", rec.Records[0].Name)
	assert.Equal(t, int64(1000), rec.Records[0].Reach)
	assert.Equal(t, 1, rec.ExcludedPosts)
	assert.True(t, hasFinding(rec.Findings, campaign.FindingDuplicateID, "INF_001"))
	assert.True(t, hasFinding(rec.Findings, campaign.FindingDuplicateID, "POST_001"))
}

func TestReconcile_RecordsSortedByInfluencerID(t *testing.T) {
	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{
			influencer("INF_010", "C", "Instagram"),
			influencer("INF_002", "A", "Instagram"),
			influencer("INF_005", "B", "YouTube"),
		},
	}

	rec := analytics.Reconcile(snap)
	require.Len(t, rec.Records, 3)
	assert.Equal(t, campaign.InfluencerID("INF_002"), rec.Records[0].InfluencerID)
	assert.Equal(t, campaign.InfluencerID("INF_005"), rec.Records[1].InfluencerID)
	assert.Equal(t, campaign.InfluencerID("INF_010"), rec.Records[2].InfluencerID)
}

// =============================================================================
// PAYOUT CONSOLIDATION
// =============================================================================

func TestReconcile_DuplicatePayouts_SummedAndFlagged(t *testing.T) {
	// GIVEN: Two payout rows for the same influencer
	// WHEN: Reconciling
	// THEN: The totals are summed into one cost and the duplication is flagged

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Payouts: []campaign.Payout{
			postPayout("INF_001", 10000, 10000),
			postPayout("INF_001", 5000, 5000),
		},
	}

	rec := analytics.Reconcile(snap)
	r := rec.Records[0]
	assert.True(t, r.Cost.Equal(decimal.NewFromInt(15000)), "cost should be the sum, got %s", r.Cost)
	assert.True(t, hasFinding(rec.Findings, campaign.FindingDuplicatePayout, "INF_001"))
}

func TestReconcile_MissingTotal_DerivedFromPostBasis(t *testing.T) {
	// GIVEN: A per-post payout row with no total_payout and 3 valid posts
	// WHEN: Reconciling
	// THEN: Cost is rate * posts and the derivation is reported as info

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Posts: []campaign.Post{
			post("POST_001", "INF_001", "Instagram", 1000, 100, 10),
			post("POST_002", "INF_001", "Instagram", 1000, 100, 10),
			post("POST_003", "INF_001", "Instagram", 1000, 100, 10),
		},
		Payouts: []campaign.Payout{{
			InfluencerID: "INF_001",
			Basis:        campaign.BasisPost,
			Rate:         decimal.NewFromInt(8000),
		}},
	}

	rec := analytics.Reconcile(snap)
	r := rec.Records[0]
	assert.True(t, r.Cost.Equal(decimal.NewFromInt(24000)), "expected 3*8000, got %s", r.Cost)
	assert.True(t, hasFinding(rec.Findings, campaign.FindingDerivedPayout, "INF_001"))
}

func TestReconcile_MissingTotal_OrderBasisRevenueShare(t *testing.T) {
	// GIVEN: An order-basis payout with fractional rate 0.10 and 5000 revenue
	// WHEN: Reconciling
	// THEN: A rate at or below 1 reads as a revenue share: cost = 0.10 * 5000

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Tracking: []campaign.TrackingRecord{
			tracking("TRK_00001", "INF_001", "MuscleBlaze", 10, 5000),
		},
		Payouts: []campaign.Payout{{
			InfluencerID: "INF_001",
			Basis:        campaign.BasisOrder,
			Rate:         decimal.NewFromFloat(0.10),
			Orders:       10,
		}},
	}

	rec := analytics.Reconcile(snap)
	assert.True(t, rec.Records[0].Cost.Equal(decimal.NewFromInt(500)),
		"expected 0.10*5000, got %s", rec.Records[0].Cost)
}

func TestReconcile_MissingTotal_OrderBasisPerUnitRate(t *testing.T) {
	// GIVEN: An order-basis payout with rate 150 per order and 10 orders on the row
	// THEN: A rate above 1 reads as a per-order amount: cost = 150 * 10

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Payouts: []campaign.Payout{{
			InfluencerID: "INF_001",
			Basis:        campaign.BasisOrder,
			Rate:         decimal.NewFromInt(150),
			Orders:       10,
		}},
	}

	rec := analytics.Reconcile(snap)
	assert.True(t, rec.Records[0].Cost.Equal(decimal.NewFromInt(1500)))
}

func TestReconcile_DivergentTotal_KeptAndFlagged(t *testing.T) {
	// GIVEN: A supplied total 25% off its derived value (2 posts * 10000 = 20000)
	// WHEN: Reconciling
	// THEN: The supplied value is kept as cost (source data is never
	//       overwritten) and the divergence is a warning

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Posts: []campaign.Post{
			post("POST_001", "INF_001", "Instagram", 1000, 100, 10),
			post("POST_002", "INF_001", "Instagram", 1000, 100, 10),
		},
		Payouts: []campaign.Payout{postPayout("INF_001", 10000, 25000)},
	}

	rec := analytics.Reconcile(snap)
	assert.True(t, rec.Records[0].Cost.Equal(decimal.NewFromInt(25000)))
	assert.True(t, hasFinding(rec.Findings, campaign.FindingPayoutDivergence, "INF_001"))
}

func TestReconcile_TotalWithinTolerance_NoFlag(t *testing.T) {
	// GIVEN: A supplied total within 1% of its derived value
	// THEN: No divergence warning

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Posts: []campaign.Post{
			post("POST_001", "INF_001", "Instagram", 1000, 100, 10),
			post("POST_002", "INF_001", "Instagram", 1000, 100, 10),
		},
		Payouts: []campaign.Payout{postPayout("INF_001", 10000, 20100)},
	}

	rec := analytics.Reconcile(snap)
	assert.True(t, rec.Records[0].Cost.Equal(decimal.NewFromInt(20100)))
	assert.False(t, hasFinding(rec.Findings, campaign.FindingPayoutDivergence, "INF_001"))
}

// =============================================================================
// BRAND SPLITS
// =============================================================================

func TestReconcile_BrandContributions_SortedAndSummed(t *testing.T) {
	// GIVEN: Tracking rows for two brands, one of them twice
	// THEN: Per-brand splits are summed and sorted by brand name

	snap := &campaign.Snapshot{
		Influencers: []campaign.Influencer{influencer("INF_001", "Rohit", "Instagram")},
		Tracking: []campaign.TrackingRecord{
			tracking("TRK_00001", "INF_001", "MuscleBlaze", 2, 2000),
			tracking("TRK_00002", "INF_001", "HKVitals", 1, 800),
			tracking("TRK_00003", "INF_001", "MuscleBlaze", 3, 3000),
		},
	}

	rec := analytics.Reconcile(snap)
	brands := rec.Records[0].Brands
	require.Len(t, brands, 2)
	assert.Equal(t, "HKVitals", brands[0].Brand)
	assert.Equal(t, "MuscleBlaze", brands[1].Brand)
	assert.Equal(t, int64(5), brands[1].Orders)
	assert.True(t, brands[1].Revenue.Equal(decimal.NewFromInt(5000)))
}
