/*
insights.go - Rankings, performance tiers and rule-based recommendations

PURPOSE:
  Turns the metric tables into decision-support output: ordered influencer
  rankings per metric, a tier classification, and prioritized human-readable
  recommendations.

DETERMINISM:
  Every ordering here is total. Ranking ties break by influencer_id
  ascending, rules run in a fixed order, and re-running on identical input
  produces byte-identical output. Dashboards diff across runs; unstable
  ordering would show phantom changes.

RULES:
  Recommendations come from an ordered list of independent rules, each a
  predicate over the metrics snapshot plus a recommendation builder. Rules
  are values, so each is unit-testable in isolation and the list can be
  reordered or extended without touching the others. When two rules target
  the same subject, the recommendations are merged keeping the highest
  priority.
*/
package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// =============================================================================
// RANKINGS
// =============================================================================

// RankingMetric names one of the supported ranking orders.
type RankingMetric string

const (
	RankByROAS             RankingMetric = "roas"
	RankByIncrementalROAS  RankingMetric = "incremental_roas"
	RankByRevenue          RankingMetric = "revenue"
	RankByPerformanceScore RankingMetric = "performance_score"
)

// RankingMetrics lists the supported orders, in output order.
func RankingMetrics() []RankingMetric {
	return []RankingMetric{RankByROAS, RankByIncrementalROAS, RankByRevenue, RankByPerformanceScore}
}

// RankEntry is one influencer's position in a ranking. Value is undefined
// for influencers whose metric is the no-cost/no-order sentinel; those sort
// below every defined value.
type RankEntry struct {
	Rank         int
	InfluencerID campaign.InfluencerID
	Name         string
	Value        Ratio
}

// Ranking is a full descending ordering of the population by one metric.
type Ranking struct {
	Metric  RankingMetric
	Entries []RankEntry
}

// Rankings orders the population by each supported metric, descending,
// with ties broken by influencer_id ascending.
func Rankings(ms []InfluencerMetrics) []Ranking {
	out := make([]Ranking, 0, len(RankingMetrics()))
	for _, metric := range RankingMetrics() {
		out = append(out, rankBy(ms, metric))
	}
	return out
}

func rankBy(ms []InfluencerMetrics, metric RankingMetric) Ranking {
	entries := make([]RankEntry, len(ms))
	for i, m := range ms {
		entries[i] = RankEntry{
			InfluencerID: m.InfluencerID,
			Name:         m.Name,
			Value:        rankValue(m, metric),
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Value.Cmp(entries[j].Value); c != 0 {
			return c > 0
		}
		return entries[i].InfluencerID < entries[j].InfluencerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return Ranking{Metric: metric, Entries: entries}
}

func rankValue(m InfluencerMetrics, metric RankingMetric) Ratio {
	switch metric {
	case RankByROAS:
		return m.ROAS
	case RankByIncrementalROAS:
		return m.IncrementalROAS
	case RankByRevenue:
		return DefinedRatio(m.Revenue)
	case RankByPerformanceScore:
		return DefinedRatio(decimal.NewFromFloat(m.PerformanceScore))
	default:
		return UndefinedRatio()
	}
}

// =============================================================================
// PERFORMANCE CLASSIFICATION
// =============================================================================

// Tier partitions the population by performance.
type Tier string

const (
	TierTopPerformer   Tier = "top_performer"
	TierSteady         Tier = "steady"
	TierUnderperformer Tier = "underperformer"
)

// Classification is one influencer's tier with the values that put them
// there.
type Classification struct {
	InfluencerID     campaign.InfluencerID
	Name             string
	Tier             Tier
	PerformanceScore float64
	ROAS             Ratio
}

// Classify partitions the population. ROAS below break-even is always
// underperforming regardless of thresholds; the top tier is the configured
// top percentile by performance score among the rest. Output follows the
// input order.
func Classify(ms []InfluencerMetrics, cfg Config) []Classification {
	cfg = cfg.withDefaults()
	cutoff := topScoreCutoff(ms, cfg.TopPerformerPercentile)

	out := make([]Classification, len(ms))
	for i, m := range ms {
		tier := TierSteady
		switch {
		case m.ROAS.LessThan(cfg.UnderperformerROAS):
			tier = TierUnderperformer
		case m.PerformanceScore >= cutoff:
			tier = TierTopPerformer
		}
		out[i] = Classification{
			InfluencerID:     m.InfluencerID,
			Name:             m.Name,
			Tier:             tier,
			PerformanceScore: m.PerformanceScore,
			ROAS:             m.ROAS,
		}
	}
	return out
}

// topScoreCutoff returns the score of the last influencer inside the top
// percentile. With an empty population it returns +Inf so nothing
// qualifies.
func topScoreCutoff(ms []InfluencerMetrics, percentile float64) float64 {
	if len(ms) == 0 {
		return math.Inf(1)
	}
	scores := make([]float64, len(ms))
	for i, m := range ms {
		scores[i] = m.PerformanceScore
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	k := int(math.Ceil(float64(len(scores)) * percentile))
	if k < 1 {
		k = 1
	}
	if k > len(scores) {
		k = len(scores)
	}
	return scores[k-1]
}

// =============================================================================
// RECOMMENDATIONS
// =============================================================================

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// SubjectKind says what a recommendation is about.
type SubjectKind string

const (
	SubjectInfluencer SubjectKind = "influencer"
	SubjectPlatform   SubjectKind = "platform"
	SubjectCategory   SubjectKind = "category"
	SubjectBrand      SubjectKind = "brand"
)

// Recommendation is one actionable finding with the metric values that
// triggered it spelled out in the rationale.
type Recommendation struct {
	Type      string      `json:"type"`
	Subject   string      `json:"subject"`
	Kind      SubjectKind `json:"kind"`
	Priority  Priority    `json:"priority"`
	Rationale string      `json:"rationale"`
	Action    string      `json:"action"`
}

// RuleInput is the full metrics snapshot a rule evaluates against.
type RuleInput struct {
	Influencers []InfluencerMetrics
	Platforms   []GroupMetrics
	Categories  []GroupMetrics
	Brands      []GroupMetrics
	Config      Config
}

// Rule is one independent predicate+builder over the metrics snapshot.
type Rule struct {
	Name     string
	Evaluate func(RuleInput) []Recommendation
}

// DefaultRules returns the rule list in its fixed evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "cost-review", Evaluate: costReviewRule},
		{Name: "budget-reallocation", Evaluate: reallocationRule},
		{Name: "budget-shift", Evaluate: budgetShiftRule},
		{Name: "scale-partnership", Evaluate: scalingRule},
		{Name: "brand-focus", Evaluate: brandFocusRule},
		{Name: "conversion-funnel", Evaluate: conversionRule},
	}
}

// Recommend runs the default rules in order and merges duplicate subjects,
// keeping the highest priority at the first-seen position.
func Recommend(in RuleInput) []Recommendation {
	return RecommendWith(DefaultRules(), in)
}

// RecommendWith runs an explicit rule list, for callers that extend or
// reorder the defaults.
func RecommendWith(rules []Rule, in RuleInput) []Recommendation {
	in.Config = in.Config.withDefaults()

	var out []Recommendation
	position := make(map[string]int)
	for _, rule := range rules {
		for _, r := range rule.Evaluate(in) {
			key := string(r.Kind) + "\x00" + r.Subject
			if i, seen := position[key]; seen {
				if r.Priority.rank() > out[i].Priority.rank() {
					out[i] = r
				}
				continue
			}
			position[key] = len(out)
			out = append(out, r)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Rule implementations
// -----------------------------------------------------------------------------

// costReviewRule fires for every influencer below break-even. The 1.0
// threshold is a fixed business rule, independent of configuration.
func costReviewRule(in RuleInput) []Recommendation {
	var out []Recommendation
	for _, m := range in.Influencers {
		if !m.ROAS.LessThan(breakEvenROAS) {
			continue
		}
		out = append(out, Recommendation{
			Type:     "Cost Review",
			Subject:  string(m.InfluencerID),
			Kind:     SubjectInfluencer,
			Priority: PriorityHigh,
			Rationale: fmt.Sprintf("%s has ROAS %s, below break-even 1.00 (revenue %s against cost %s)",
				m.Name, m.ROAS, m.Revenue.StringFixed(2), m.Cost.StringFixed(2)),
			Action: "Renegotiate rates, improve content strategy, or discontinue the partnership",
		})
	}
	return out
}

// reallocationRule flags bottom-decile performers whose cost per order is
// above the population median.
func reallocationRule(in RuleInput) []Recommendation {
	cutoff := bottomScoreCutoff(in.Influencers, 0.10)
	median, ok := medianDefined(in.Influencers, func(m InfluencerMetrics) Ratio { return m.CostPerOrder })
	if !ok {
		return nil
	}

	var out []Recommendation
	for _, m := range in.Influencers {
		if m.PerformanceScore > cutoff || !m.CostPerOrder.GreaterThan(median) {
			continue
		}
		out = append(out, Recommendation{
			Type:     "Budget Reallocation",
			Subject:  string(m.InfluencerID),
			Kind:     SubjectInfluencer,
			Priority: PriorityMedium,
			Rationale: fmt.Sprintf("%s scores %.1f (bottom decile) with cost per order %s above the population median %s",
				m.Name, m.PerformanceScore, m.CostPerOrder, median.StringFixed(2)),
			Action: "Shift budget toward influencers with lower acquisition cost",
		})
	}
	return out
}

// budgetShiftRule compares platform and category rollups: when the leader's
// grouped ROAS beats the runner-up by the configured margin, suggest moving
// budget toward it.
func budgetShiftRule(in RuleInput) []Recommendation {
	var out []Recommendation
	margin := decimal.NewFromFloat(in.Config.OutperformMargin)
	for _, grain := range []struct {
		kind   SubjectKind
		groups []GroupMetrics
	}{
		{SubjectPlatform, in.Platforms},
		{SubjectCategory, in.Categories},
	} {
		best, second, ok := leadersByROAS(grain.groups)
		if !ok {
			continue
		}
		if !second.ROAS.Decimal().IsPositive() {
			continue
		}
		if best.ROAS.Decimal().LessThan(second.ROAS.Decimal().Mul(margin)) {
			continue
		}
		out = append(out, Recommendation{
			Type:     "Budget Shift",
			Subject:  best.Key,
			Kind:     grain.kind,
			Priority: PriorityLow,
			Rationale: fmt.Sprintf("%s %s delivers ROAS %s against %s for the next best (%s), beyond the %.1fx margin",
				grain.kind, best.Key, best.ROAS, second.ROAS, second.Key, in.Config.OutperformMargin),
			Action: fmt.Sprintf("Reallocate part of the budget toward %s campaigns", best.Key),
		})
	}
	return out
}

// scalingRule flags partnerships well above the scaling threshold.
func scalingRule(in RuleInput) []Recommendation {
	var out []Recommendation
	for _, m := range in.Influencers {
		if !m.ROAS.GreaterThan(in.Config.ScalingROAS) {
			continue
		}
		out = append(out, Recommendation{
			Type:     "Scale Partnership",
			Subject:  string(m.InfluencerID),
			Kind:     SubjectInfluencer,
			Priority: PriorityHigh,
			Rationale: fmt.Sprintf("%s delivers ROAS %s, above the %s scaling threshold",
				m.Name, m.ROAS, in.Config.ScalingROAS.StringFixed(2)),
			Action: "Increase post frequency or negotiate a longer-term exclusive partnership",
		})
	}
	return out
}

// brandFocusRule points content investment at the top-revenue brand.
func brandFocusRule(in RuleInput) []Recommendation {
	if len(in.Brands) == 0 || !in.Brands[0].Revenue.IsPositive() {
		return nil
	}
	best := in.Brands[0] // brand rollups arrive sorted by revenue descending
	return []Recommendation{{
		Type:     "Content Strategy",
		Subject:  best.Key,
		Kind:     SubjectBrand,
		Priority: PriorityMedium,
		Rationale: fmt.Sprintf("%s generates the highest attributed revenue (%s across %d orders)",
			best.Key, best.Revenue.StringFixed(2), best.Orders),
		Action: fmt.Sprintf("Create dedicated content campaigns highlighting %s products", best.Key),
	}}
}

// conversionRule finds influencers whose audience engages but does not buy:
// engagement above the 75th percentile with ROAS below the median.
func conversionRule(in RuleInput) []Recommendation {
	if len(in.Influencers) == 0 {
		return nil
	}
	rates := make([]float64, len(in.Influencers))
	for i, m := range in.Influencers {
		rates[i], _ = m.EngagementRate.Float64()
	}
	sort.Float64s(rates)
	highEngagement := quantile(rates, 0.75)

	medianROAS, ok := medianDefined(in.Influencers, func(m InfluencerMetrics) Ratio { return m.ROAS })
	if !ok {
		return nil
	}

	var out []Recommendation
	for _, m := range in.Influencers {
		rate, _ := m.EngagementRate.Float64()
		if rate <= highEngagement || !m.ROAS.LessThan(medianROAS) {
			continue
		}
		out = append(out, Recommendation{
			Type:     "Conversion Optimization",
			Subject:  string(m.InfluencerID),
			Kind:     SubjectInfluencer,
			Priority: PriorityMedium,
			Rationale: fmt.Sprintf("%s engages %.2f%% of reach but converts at ROAS %s, below the population median %s",
				m.Name, rate*100, m.ROAS, medianROAS.StringFixed(2)),
			Action: "Review call-to-action, landing pages and discount codes for this partnership",
		})
	}
	return out
}

// -----------------------------------------------------------------------------
// Rule helpers
// -----------------------------------------------------------------------------

func bottomScoreCutoff(ms []InfluencerMetrics, percentile float64) float64 {
	if len(ms) == 0 {
		return math.Inf(-1)
	}
	scores := make([]float64, len(ms))
	for i, m := range ms {
		scores[i] = m.PerformanceScore
	}
	sort.Float64s(scores)
	k := int(math.Ceil(float64(len(scores)) * percentile))
	if k < 1 {
		k = 1
	}
	if k > len(scores) {
		k = len(scores)
	}
	return scores[k-1]
}

// medianDefined returns the median of the defined values of a ratio metric.
func medianDefined(ms []InfluencerMetrics, pick func(InfluencerMetrics) Ratio) (decimal.Decimal, bool) {
	var vals []decimal.Decimal
	for _, m := range ms {
		if r := pick(m); r.Defined() {
			vals = append(vals, r.Decimal())
		}
	}
	if len(vals) == 0 {
		return decimal.Zero, false
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].LessThan(vals[j]) })
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], true
	}
	return vals[mid-1].Add(vals[mid]).Div(decimal.NewFromInt(2)), true
}

// leadersByROAS returns the two groups with the highest defined ROAS.
func leadersByROAS(groups []GroupMetrics) (best, second GroupMetrics, ok bool) {
	var defined []GroupMetrics
	for _, g := range groups {
		if g.ROAS.Defined() {
			defined = append(defined, g)
		}
	}
	if len(defined) < 2 {
		return GroupMetrics{}, GroupMetrics{}, false
	}
	sort.Slice(defined, func(i, j int) bool {
		if c := defined[i].ROAS.Cmp(defined[j].ROAS); c != 0 {
			return c > 0
		}
		return defined[i].Key < defined[j].Key
	})
	return defined[0], defined[1], true
}

// quantile interpolates q over sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
