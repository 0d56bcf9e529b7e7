/*
metrics.go - Engagement, ROI and composite performance metrics

PURPOSE:
  Pure functions from the reconciled CampaignRecord set to metric tables,
  per influencer and grouped by platform, brand and category.

FORMULAS:
  engagement_rate  = (likes + comments) / reach          (0 when reach is 0)
  roas             = revenue / cost                      (undefined when cost is 0)
  incremental_roas = (revenue - baseline) / cost,  baseline = fraction * revenue
  cost_per_order   = cost / orders                       (undefined when orders is 0)

GROUPED METRICS:
  A group's ratio is computed from SUMMED numerators and denominators:
  group ROAS is sum(revenue)/sum(cost), never the mean of per-influencer
  ROAS values. Averaging ratios weights a tiny influencer the same as a
  huge one and is a correctness bug, not a style choice.

PERFORMANCE SCORE:
  A 0-100 composite of min-max normalized ROAS, engagement rate, order
  volume and inverted cost-per-order, blended with Config.Weights. The
  normalization is relative to the influencer population of the current
  pass: scores are comparable within one analysis run only, never across
  runs with different populations.
*/
package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PER-INFLUENCER METRICS
// =============================================================================

// InfluencerMetrics is one influencer's campaign record with every derived
// metric attached.
type InfluencerMetrics struct {
	CampaignRecord

	EngagementRate  decimal.Decimal
	ROAS            Ratio
	IncrementalROAS Ratio
	CostPerOrder    Ratio
	RevenuePerOrder Ratio

	// Normalized component scores and the weighted composite, all 0-100
	// and relative to the current population.
	ROASScore        float64
	EngagementScore  float64
	VolumeScore      float64
	EfficiencyScore  float64
	PerformanceScore float64
}

// ComputeInfluencerMetrics derives all per-influencer metrics plus the
// population-relative performance scores. Record order is preserved.
func ComputeInfluencerMetrics(records []CampaignRecord, cfg Config) []InfluencerMetrics {
	cfg = cfg.withDefaults()
	out := make([]InfluencerMetrics, len(records))
	for i, r := range records {
		out[i] = InfluencerMetrics{
			CampaignRecord:  r,
			EngagementRate:  engagementRate(r.Likes, r.Comments, r.Reach),
			ROAS:            SafeDiv(r.Revenue, r.Cost),
			IncrementalROAS: incrementalROAS(r.Revenue, r.Cost, cfg.BaselineFraction),
			CostPerOrder:    SafeDiv(r.Cost, decimal.NewFromInt(r.Orders)),
			RevenuePerOrder: SafeDiv(r.Revenue, decimal.NewFromInt(r.Orders)),
		}
	}
	attachScores(out, cfg.Weights)
	return out
}

// engagementRate is (likes+comments)/reach with zero reach defined as zero
// engagement: nobody was reached, so nothing measurable was engaged. This
// is a real zero, not an undefined sentinel.
func engagementRate(likes, comments, reach int64) decimal.Decimal {
	if reach == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(likes + comments).Div(decimal.NewFromInt(reach))
}

func incrementalROAS(revenue, cost, baselineFraction decimal.Decimal) Ratio {
	incremental := revenue.Sub(revenue.Mul(baselineFraction))
	return SafeDiv(incremental, cost)
}

// =============================================================================
// PERFORMANCE SCORES
// =============================================================================

// attachScores fills the component and composite scores in place.
// Undefined ratios take the worst defined raw value for their component, so
// a no-cost influencer neither tops nor distorts the ROAS scale.
func attachScores(ms []InfluencerMetrics, w ScoreWeights) {
	n := len(ms)
	if n == 0 {
		return
	}

	roasRaw := rawWithFallback(ms, func(m InfluencerMetrics) Ratio { return m.ROAS }, worstLow)
	cpoRaw := rawWithFallback(ms, func(m InfluencerMetrics) Ratio { return m.CostPerOrder }, worstHigh)
	engRaw := make([]float64, n)
	volRaw := make([]float64, n)
	for i, m := range ms {
		engRaw[i], _ = m.EngagementRate.Float64()
		volRaw[i] = float64(m.Orders)
	}

	roasScore := minMaxScale(roasRaw, false)
	engScore := minMaxScale(engRaw, false)
	volScore := minMaxScale(volRaw, false)
	effScore := minMaxScale(cpoRaw, true) // cheap orders score high

	total := w.total()
	for i := range ms {
		ms[i].ROASScore = roasScore[i]
		ms[i].EngagementScore = engScore[i]
		ms[i].VolumeScore = volScore[i]
		ms[i].EfficiencyScore = effScore[i]
		composite := (roasScore[i]*w.ROAS + engScore[i]*w.Engagement +
			volScore[i]*w.Volume + effScore[i]*w.Efficiency) / total
		ms[i].PerformanceScore = math.Round(composite*10) / 10
	}
}

type fallback int

const (
	worstLow  fallback = iota // undefined takes the population minimum
	worstHigh                 // undefined takes the population maximum
)

func rawWithFallback(ms []InfluencerMetrics, pick func(InfluencerMetrics) Ratio, fb fallback) []float64 {
	var lo, hi float64
	seen := false
	for _, m := range ms {
		if r := pick(m); r.Defined() {
			v := r.Float64()
			if !seen || v < lo {
				lo = v
			}
			if !seen || v > hi {
				hi = v
			}
			seen = true
		}
	}
	sub := lo
	if fb == worstHigh {
		sub = hi
	}
	out := make([]float64, len(ms))
	for i, m := range ms {
		if r := pick(m); r.Defined() {
			out[i] = r.Float64()
		} else {
			out[i] = sub
		}
	}
	return out
}

// minMaxScale maps values onto 0-100. A flat population scores 50 across
// the board. reverse inverts the scale (lower raw value scores higher).
func minMaxScale(values []float64, reverse bool) []float64 {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	out := make([]float64, len(values))
	if hi == lo {
		for i := range out {
			out[i] = 50
		}
		return out
	}
	for i, v := range values {
		s := (v - lo) / (hi - lo) * 100
		if reverse {
			s = 100 - s
		}
		out[i] = s
	}
	return out
}

// =============================================================================
// GROUPED METRICS - platform / category / brand rollups
// =============================================================================

// GroupMetrics is one rollup row at a platform, category or brand grain.
// All ratios are computed from the summed columns of the group.
type GroupMetrics struct {
	Key         string
	Influencers int

	Posts    int64
	Reach    int64
	Likes    int64
	Comments int64
	Orders   int64
	Revenue  decimal.Decimal
	Cost     decimal.Decimal

	EngagementRate  decimal.Decimal
	ROAS            Ratio
	IncrementalROAS Ratio
	CostPerOrder    Ratio
	AvgOrderValue   Ratio
}

func (g *GroupMetrics) finish(baselineFraction decimal.Decimal) {
	g.EngagementRate = engagementRate(g.Likes, g.Comments, g.Reach)
	g.ROAS = SafeDiv(g.Revenue, g.Cost)
	g.IncrementalROAS = incrementalROAS(g.Revenue, g.Cost, baselineFraction)
	g.CostPerOrder = SafeDiv(g.Cost, decimal.NewFromInt(g.Orders))
	g.AvgOrderValue = SafeDiv(g.Revenue, decimal.NewFromInt(g.Orders))
}

// GroupByPlatform rolls the record set up by the influencer's canonical
// platform (the profile value, not whatever individual posts claimed).
func GroupByPlatform(records []CampaignRecord, cfg Config) []GroupMetrics {
	return groupBy(records, cfg, func(r CampaignRecord) string { return r.Platform })
}

// GroupByCategory rolls the record set up by influencer category.
func GroupByCategory(records []CampaignRecord, cfg Config) []GroupMetrics {
	return groupBy(records, cfg, func(r CampaignRecord) string { return r.Category })
}

func groupBy(records []CampaignRecord, cfg Config, key func(CampaignRecord) string) []GroupMetrics {
	cfg = cfg.withDefaults()
	groups := make(map[string]*GroupMetrics)
	for _, r := range records {
		k := key(r)
		g := groups[k]
		if g == nil {
			g = &GroupMetrics{Key: k, Revenue: decimal.Zero, Cost: decimal.Zero}
			groups[k] = g
		}
		g.Influencers++
		g.Posts += r.Posts
		g.Reach += r.Reach
		g.Likes += r.Likes
		g.Comments += r.Comments
		g.Orders += r.Orders
		g.Revenue = g.Revenue.Add(r.Revenue)
		g.Cost = g.Cost.Add(r.Cost)
	}
	return finishGroups(groups, cfg)
}

// GroupByBrand rolls up the per-brand revenue splits carried on each record.
// Cost is not tracked per brand by any source dataset, so each influencer's
// cost is attributed to brands in proportion to that influencer's revenue
// split; influencers with zero revenue contribute no brand cost. Engagement
// columns stay zero at this grain since posts are not brand-attributed.
func GroupByBrand(records []CampaignRecord, cfg Config) []GroupMetrics {
	cfg = cfg.withDefaults()
	groups := make(map[string]*GroupMetrics)
	for _, r := range records {
		for _, b := range r.Brands {
			g := groups[b.Brand]
			if g == nil {
				g = &GroupMetrics{Key: b.Brand, Revenue: decimal.Zero, Cost: decimal.Zero}
				groups[b.Brand] = g
			}
			g.Influencers++
			g.Orders += b.Orders
			g.Revenue = g.Revenue.Add(b.Revenue)
			if r.Revenue.IsPositive() {
				share := b.Revenue.Div(r.Revenue)
				g.Cost = g.Cost.Add(r.Cost.Mul(share))
			}
		}
	}
	return finishGroups(groups, cfg)
}

// finishGroups computes the group ratios and orders rows by revenue
// descending, key ascending on ties, for a stable presentation order.
func finishGroups(groups map[string]*GroupMetrics, cfg Config) []GroupMetrics {
	out := make([]GroupMetrics, 0, len(groups))
	for _, g := range groups {
		g.finish(cfg.BaselineFraction)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}
