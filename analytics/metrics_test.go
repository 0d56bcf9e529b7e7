package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitraun/healthkart-influencer-dashboard/analytics"
	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func record(id string, revenue, cost float64, orders int64) analytics.CampaignRecord {
	return analytics.CampaignRecord{
		InfluencerID: campaign.InfluencerID(id),
		Name:         "Influencer " + id,
		Category:     "Fitness",
		Platform:     "Instagram",
		Revenue:      decimal.NewFromFloat(revenue),
		Cost:         decimal.NewFromFloat(cost),
		Orders:       orders,
		HasPayout:    cost > 0,
	}
}

func ratioValue(t *testing.T, r analytics.Ratio) float64 {
	t.Helper()
	require.True(t, r.Defined(), "expected a defined ratio")
	return r.Float64()
}

// =============================================================================
// PER-INFLUENCER METRICS
// =============================================================================

func TestMetrics_EngagementRate_ZeroReachIsZero(t *testing.T) {
	// GIVEN: An influencer whose posts reached nobody
	// WHEN: Computing engagement
	// THEN: The rate is a real zero, not an undefined sentinel: nobody was
	//       reached, so nothing measurable was engaged

	rec := record("INF_001", 0, 0, 0)
	rec.Likes, rec.Comments, rec.Reach = 0, 0, 0

	ms := analytics.ComputeInfluencerMetrics([]analytics.CampaignRecord{rec}, analytics.DefaultConfig())
	assert.True(t, ms[0].EngagementRate.IsZero())
}

func TestMetrics_EngagementRate_LikesPlusCommentsOverReach(t *testing.T) {
	rec := record("INF_001", 0, 0, 0)
	rec.Likes, rec.Comments, rec.Reach = 900, 100, 20000

	ms := analytics.ComputeInfluencerMetrics([]analytics.CampaignRecord{rec}, analytics.DefaultConfig())
	assert.True(t, ms[0].EngagementRate.Equal(decimal.NewFromFloat(0.05)),
		"expected (900+100)/20000 = 0.05, got %s", ms[0].EngagementRate)
}

func TestMetrics_ROAS_ZeroCostIsUndefined_NotZero(t *testing.T) {
	// GIVEN: An influencer with revenue but no cost
	// WHEN: Computing ROAS
	// THEN: ROAS is the undefined sentinel. Zero would mean "returned
	//       nothing", which is the opposite of what happened

	ms := analytics.ComputeInfluencerMetrics(
		[]analytics.CampaignRecord{record("INF_001", 5000, 0, 10)},
		analytics.DefaultConfig(),
	)

	assert.False(t, ms[0].ROAS.Defined())
	assert.False(t, ms[0].IncrementalROAS.Defined())
	assert.Nil(t, ms[0].ROAS.Float64Ptr())
}

func TestMetrics_CostPerOrder_ZeroOrdersIsUndefined(t *testing.T) {
	ms := analytics.ComputeInfluencerMetrics(
		[]analytics.CampaignRecord{record("INF_001", 0, 3000, 0)},
		analytics.DefaultConfig(),
	)
	assert.False(t, ms[0].CostPerOrder.Defined())
	assert.False(t, ms[0].RevenuePerOrder.Defined())
}

func TestMetrics_IncrementalROAS_DeductsBaseline(t *testing.T) {
	// GIVEN: Revenue 10000 against cost 3000 with a 20% organic baseline
	// WHEN: Computing ROI metrics
	// THEN: ROAS = 3.33..., incremental ROAS = (10000*0.8)/3000 = 2.67,
	//       and incremental never exceeds regular ROAS

	ms := analytics.ComputeInfluencerMetrics(
		[]analytics.CampaignRecord{record("INF_001", 10000, 3000, 25)},
		analytics.DefaultConfig(),
	)

	assert.InDelta(t, 3.3333, ratioValue(t, ms[0].ROAS), 0.001)
	assert.InDelta(t, 2.6667, ratioValue(t, ms[0].IncrementalROAS), 0.001)
	assert.LessOrEqual(t, ms[0].IncrementalROAS.Float64(), ms[0].ROAS.Float64())
}

// =============================================================================
// PERFORMANCE SCORES
// =============================================================================

func TestMetrics_PerformanceScore_FlatPopulationScoresFifty(t *testing.T) {
	// GIVEN: A population where every influencer has identical metrics
	// WHEN: Normalizing scores
	// THEN: Everyone scores 50; min-max over a flat population cannot rank

	records := []analytics.CampaignRecord{
		record("INF_001", 5000, 2000, 10),
		record("INF_002", 5000, 2000, 10),
		record("INF_003", 5000, 2000, 10),
	}

	ms := analytics.ComputeInfluencerMetrics(records, analytics.DefaultConfig())
	for _, m := range ms {
		assert.Equal(t, 50.0, m.PerformanceScore)
	}
}

func TestMetrics_PerformanceScore_BestAndWorstAtExtremes(t *testing.T) {
	// GIVEN: One influencer strictly better on every component, one strictly worse
	// THEN: Scores land at 100 and 0, middle in between

	good := record("INF_001", 20000, 2000, 50) // roas 10, cpo 40
	good.Likes, good.Reach = 1000, 10000       // engagement 0.10
	mid := record("INF_002", 6000, 2000, 20) // roas 3, cpo 100
	mid.Likes, mid.Reach = 500, 10000        // engagement 0.05
	bad := record("INF_003", 1000, 2000, 5) // roas 0.5, cpo 400
	bad.Likes, bad.Reach = 100, 10000       // engagement 0.01

	ms := analytics.ComputeInfluencerMetrics(
		[]analytics.CampaignRecord{good, mid, bad}, analytics.DefaultConfig())

	assert.Equal(t, 100.0, ms[0].PerformanceScore)
	assert.Equal(t, 0.0, ms[2].PerformanceScore)
	assert.Greater(t, ms[1].PerformanceScore, ms[2].PerformanceScore)
	assert.Less(t, ms[1].PerformanceScore, ms[0].PerformanceScore)
}

func TestMetrics_UndefinedROAS_TakesWorstDefinedValue(t *testing.T) {
	// GIVEN: A no-cost influencer among defined ones
	// WHEN: Scoring
	// THEN: Their undefined ROAS normalizes as the worst defined ROAS, so
	//       paying nothing neither tops nor distorts the scale

	ms := analytics.ComputeInfluencerMetrics([]analytics.CampaignRecord{
		record("INF_001", 10000, 2000, 10), // roas 5
		record("INF_002", 4000, 2000, 10),  // roas 2
		record("INF_003", 5000, 0, 10),     // roas undefined
	}, analytics.DefaultConfig())

	assert.Equal(t, 100.0, ms[0].ROASScore)
	assert.Equal(t, 0.0, ms[1].ROASScore)
	assert.Equal(t, 0.0, ms[2].ROASScore, "undefined ROAS should take the population minimum")
}

// =============================================================================
// GROUPED METRICS
// =============================================================================

func TestGroupMetrics_RatiosFromSums_NeverMeanOfRatios(t *testing.T) {
	// GIVEN: Influencer A with revenue 100 / cost 10 (ROAS 10) and
	//        influencer B with revenue 100 / cost 100 (ROAS 1), same platform
	// WHEN: Rolling up by platform
	// THEN: Group ROAS is 200/110 = 1.818..., NOT the ratio mean 5.5.
	//       Averaging ratios weights a tiny spend like a huge one

	records := []analytics.CampaignRecord{
		record("INF_001", 100, 10, 1),
		record("INF_002", 100, 100, 1),
	}

	groups := analytics.GroupByPlatform(records, analytics.DefaultConfig())
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Instagram", g.Key)
	assert.Equal(t, 2, g.Influencers)
	assert.InDelta(t, 200.0/110.0, ratioValue(t, g.ROAS), 0.0001)
}

func TestGroupMetrics_SortedByRevenueDescending(t *testing.T) {
	a := record("INF_001", 1000, 100, 1)
	a.Platform = "YouTube"
	b := record("INF_002", 9000, 100, 1)
	b.Platform = "Instagram"
	c := record("INF_003", 5000, 100, 1)
	c.Platform = "Twitter"

	groups := analytics.GroupByPlatform([]analytics.CampaignRecord{a, b, c}, analytics.DefaultConfig())
	require.Len(t, groups, 3)
	assert.Equal(t, "Instagram", groups[0].Key)
	assert.Equal(t, "Twitter", groups[1].Key)
	assert.Equal(t, "YouTube", groups[2].Key)
}

func TestGroupByBrand_CostAttributedByRevenueShare(t *testing.T) {
	// GIVEN: An influencer with cost 1000 whose revenue splits 75/25 across
	//        two brands
	// WHEN: Rolling up by brand
	// THEN: Cost follows the revenue split, since no source dataset
	//       attributes cost to brands directly

	rec := record("INF_001", 4000, 1000, 8)
	rec.Brands = []analytics.BrandContribution{
		{Brand: "HKVitals", Orders: 2, Revenue: decimal.NewFromInt(1000)},
		{Brand: "MuscleBlaze", Orders: 6, Revenue: decimal.NewFromInt(3000)},
	}

	groups := analytics.GroupByBrand([]analytics.CampaignRecord{rec}, analytics.DefaultConfig())
	require.Len(t, groups, 2)

	assert.Equal(t, "MuscleBlaze", groups[0].Key)
	assert.True(t, groups[0].Cost.Equal(decimal.NewFromInt(750)), "got %s", groups[0].Cost)
	assert.Equal(t, "HKVitals", groups[1].Key)
	assert.True(t, groups[1].Cost.Equal(decimal.NewFromInt(250)), "got %s", groups[1].Cost)
}

func TestGroupMetrics_ZeroCostGroup_UndefinedROAS(t *testing.T) {
	records := []analytics.CampaignRecord{record("INF_001", 5000, 0, 10)}

	groups := analytics.GroupByCategory(records, analytics.DefaultConfig())
	require.Len(t, groups, 1)
	assert.False(t, groups[0].ROAS.Defined())
}
