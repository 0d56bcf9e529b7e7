/*
engine.go - One-call analysis pass

PURPOSE:
  Analyze runs the whole pipeline over a materialized snapshot:
  reconciliation, metric tables at every grain, rankings, tiers,
  recommendations and an executive summary, bundled into a single Report.

OWNERSHIP:
  Everything in the Report is owned by the caller. The engine keeps no
  state between passes; callers that want to skip redundant recomputation
  can memoize reports keyed by (Report.SnapshotHash, config).
*/
package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// Summary is the executive rollup across the whole population.
type Summary struct {
	Influencers     int
	TotalRevenue    decimal.Decimal
	TotalCost       decimal.Decimal
	OverallROAS     Ratio
	IncrementalROAS Ratio
	AvgScore        float64
	ProfitablePct   float64 // share of influencers with ROAS above break-even
	BestPlatform    string  // highest-revenue platform, "" when no data
}

// Report is the complete output of one analysis pass.
type Report struct {
	SnapshotHash string

	Records     []CampaignRecord
	Influencers []InfluencerMetrics
	Platforms   []GroupMetrics
	Categories  []GroupMetrics
	Brands      []GroupMetrics

	Findings         []campaign.Finding
	ExcludedPosts    int
	ExcludedTracking int
	ExcludedPayouts  int

	Rankings        []Ranking
	Classifications []Classification
	Recommendations []Recommendation

	Summary Summary
}

// Analyze runs reconciliation, metrics and insights over the snapshot.
// It is a pure function: identical snapshot and config produce an
// identical report.
func Analyze(snap *campaign.Snapshot, cfg Config) *Report {
	cfg = cfg.withDefaults()

	rec := Reconcile(snap)
	metrics := ComputeInfluencerMetrics(rec.Records, cfg)

	report := &Report{
		SnapshotHash:     snap.Hash(),
		Records:          rec.Records,
		Influencers:      metrics,
		Platforms:        GroupByPlatform(rec.Records, cfg),
		Categories:       GroupByCategory(rec.Records, cfg),
		Brands:           GroupByBrand(rec.Records, cfg),
		Findings:         rec.Findings,
		ExcludedPosts:    rec.ExcludedPosts,
		ExcludedTracking: rec.ExcludedTracking,
		ExcludedPayouts:  rec.ExcludedPayouts,
		Rankings:         Rankings(metrics),
		Classifications:  Classify(metrics, cfg),
	}
	report.Recommendations = Recommend(RuleInput{
		Influencers: metrics,
		Platforms:   report.Platforms,
		Categories:  report.Categories,
		Brands:      report.Brands,
		Config:      cfg,
	})
	report.Summary = summarize(report, cfg)
	return report
}

func summarize(r *Report, cfg Config) Summary {
	s := Summary{
		Influencers:  len(r.Influencers),
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
	}
	if s.Influencers == 0 {
		return s
	}

	profitable := 0
	var scoreSum float64
	for _, m := range r.Influencers {
		s.TotalRevenue = s.TotalRevenue.Add(m.Revenue)
		s.TotalCost = s.TotalCost.Add(m.Cost)
		scoreSum += m.PerformanceScore
		if m.ROAS.GreaterThan(breakEvenROAS) {
			profitable++
		}
	}
	s.OverallROAS = SafeDiv(s.TotalRevenue, s.TotalCost)
	s.IncrementalROAS = incrementalROAS(s.TotalRevenue, s.TotalCost, cfg.BaselineFraction)
	s.AvgScore = math.Round(scoreSum/float64(s.Influencers)*10) / 10
	s.ProfitablePct = math.Round(float64(profitable)/float64(s.Influencers)*1000) / 10

	if len(r.Platforms) > 0 {
		s.BestPlatform = r.Platforms[0].Key // sorted by revenue descending
	}
	return s
}
