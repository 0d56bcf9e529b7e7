package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitraun/healthkart-influencer-dashboard/analytics"
	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// analysisSnapshot is a small end-to-end fixture: two influencers on
// different platforms, posts, attributed orders and payouts.
func analysisSnapshot() *campaign.Snapshot {
	return &campaign.Snapshot{
		Influencers: []campaign.Influencer{
			influencer("INF_001", "Rohit Sharma Fitness", "Instagram"),
			influencer("INF_002", "Priya Wellness", "YouTube"),
		},
		Posts: []campaign.Post{
			post("POST_001", "INF_001", "Instagram", 20000, 900, 100),
			post("POST_002", "INF_001", "Instagram", 30000, 1200, 300),
			post("POST_003", "INF_002", "YouTube", 50000, 2000, 500),
		},
		Tracking: []campaign.TrackingRecord{
			tracking("TRK_00001", "INF_001", "MuscleBlaze", 20, 6000),
			tracking("TRK_00002", "INF_001", "HKVitals", 5, 4000),
			tracking("TRK_00003", "INF_002", "MuscleBlaze", 10, 4500),
		},
		Payouts: []campaign.Payout{
			postPayout("INF_001", 1500, 3000),
			postPayout("INF_002", 4000, 4000),
		},
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	// GIVEN: A two-influencer snapshot with posts, orders and payouts
	// WHEN: Running a full analysis pass
	// THEN: Every section of the report is populated and INF_001's numbers
	//       are exactly revenue 10000 / cost 3000: ROAS 3.33, incremental
	//       ROAS 2.67 at the default 20% baseline

	report := analytics.Analyze(analysisSnapshot(), analytics.DefaultConfig())

	require.Len(t, report.Records, 2)
	require.Len(t, report.Influencers, 2)
	assert.NotEmpty(t, report.SnapshotHash)
	assert.NotEmpty(t, report.Platforms)
	assert.NotEmpty(t, report.Categories)
	assert.NotEmpty(t, report.Brands)
	assert.Len(t, report.Rankings, len(analytics.RankingMetrics()))
	assert.Len(t, report.Classifications, 2)

	m := report.Influencers[0]
	require.Equal(t, campaign.InfluencerID("INF_001"), m.InfluencerID)
	assert.True(t, m.Revenue.Equal(decimal.NewFromInt(10000)))
	assert.True(t, m.Cost.Equal(decimal.NewFromInt(3000)))
	assert.InDelta(t, 3.3333, m.ROAS.Float64(), 0.001)
	assert.InDelta(t, 2.6667, m.IncrementalROAS.Float64(), 0.001)
	assert.Equal(t, int64(25), m.Orders)

	for _, r := range report.Recommendations {
		if r.Subject == "INF_001" {
			assert.NotEqual(t, "Cost Review", r.Type, "profitable influencer must not be flagged for cost review")
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	// GIVEN: The same snapshot analyzed twice
	// THEN: The reports are identical, hash included

	a := analytics.Analyze(analysisSnapshot(), analytics.DefaultConfig())
	b := analytics.Analyze(analysisSnapshot(), analytics.DefaultConfig())

	assert.Equal(t, a.SnapshotHash, b.SnapshotHash)
	assert.Equal(t, a.Records, b.Records)
	assert.Equal(t, a.Rankings, b.Rankings)
	assert.Equal(t, a.Recommendations, b.Recommendations)
	assert.Equal(t, a.Summary, b.Summary)
}

func TestAnalyze_Summary(t *testing.T) {
	// Overall ROAS is computed from summed revenue and cost, and both
	// influencers here are above break-even.

	report := analytics.Analyze(analysisSnapshot(), analytics.DefaultConfig())
	s := report.Summary

	assert.Equal(t, 2, s.Influencers)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(14500)))
	assert.True(t, s.TotalCost.Equal(decimal.NewFromInt(7000)))
	assert.InDelta(t, 14500.0/7000.0, s.OverallROAS.Float64(), 0.0001)
	assert.Equal(t, 100.0, s.ProfitablePct)
	assert.Equal(t, "Instagram", s.BestPlatform, "Instagram carries the most revenue")
}

func TestAnalyze_EmptySnapshot(t *testing.T) {
	report := analytics.Analyze(&campaign.Snapshot{}, analytics.DefaultConfig())

	assert.Empty(t, report.Records)
	assert.Empty(t, report.Recommendations)
	assert.Equal(t, 0, report.Summary.Influencers)
	assert.False(t, report.Summary.OverallROAS.Defined())
}

func TestAnalyze_BaselineOverride_ChangesIncrementalROAS(t *testing.T) {
	// GIVEN: The same snapshot with a 50% organic baseline instead of 20%
	// THEN: Incremental ROAS halves relative to regular ROAS

	cfg := analytics.DefaultConfig()
	cfg.BaselineFraction = decimal.NewFromFloat(0.50)
	report := analytics.Analyze(analysisSnapshot(), cfg)

	m := report.Influencers[0]
	assert.InDelta(t, m.ROAS.Float64()/2, m.IncrementalROAS.Float64(), 0.001)
}

func TestAnalyze_ZeroBaseline_IncrementalEqualsRegularROAS(t *testing.T) {
	// GIVEN: The organic baseline explicitly configured to zero
	// THEN: Incremental ROAS coincides with regular ROAS for every
	//       influencer; the zero is honored, not replaced by the default

	cfg := analytics.DefaultConfig()
	cfg.BaselineFraction = decimal.Zero

	report := analytics.Analyze(analysisSnapshot(), cfg)

	require.NotEmpty(t, report.Influencers)
	for _, m := range report.Influencers {
		require.True(t, m.ROAS.Defined())
		assert.InDelta(t, m.ROAS.Float64(), m.IncrementalROAS.Float64(), 0.0001,
			"influencer %s", m.InfluencerID)
	}
	assert.InDelta(t, report.Summary.OverallROAS.Float64(),
		report.Summary.IncrementalROAS.Float64(), 0.0001)
}
