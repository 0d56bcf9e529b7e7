/*
reconcile.go - Joins the four datasets into per-influencer campaign records

PURPOSE:
  Produces the CampaignRecord set every downstream metric operates on, plus
  the data-quality findings list. The join is a LEFT join onto influencers:
  an influencer with zero posts and zero tracking rows still gets a record
  with zero aggregates. Silently dropping them would corrupt every
  denominator and ranking computed later.

JOIN POLICY:
  - Orphans (post/tracking/payout rows whose influencer_id has no profile)
    are excluded from aggregation and reported as warnings, never errors.
  - A post whose platform disagrees with its influencer's is reported, and
    the influencer's platform wins for all rollups.
  - Negative counters or revenue exclude the row; values are never clamped.
  - Duplicate unique keys keep the first row and report the rest.

PAYOUT CONSOLIDATION:
  Multiple payout rows for one influencer are summed and flagged. A missing
  total_payout is derived from basis and rate. A supplied total that
  diverges more than 1% from the derived value is flagged but kept; the
  engine does not overwrite source data.

RECORDS CARRY ALL DIMENSION KEYS:
  platform, category, gender and per-brand revenue splits ride on each
  record, so platform/brand/category rollups group the record set without
  re-running the join.
*/
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// =============================================================================
// CAMPAIGN RECORD - The reconciled per-influencer aggregate
// =============================================================================

// BrandContribution is one brand's share of an influencer's attributed
// orders and revenue.
type BrandContribution struct {
	Brand   string
	Orders  int64
	Revenue decimal.Decimal
}

// CampaignRecord is the denormalized per-influencer view: profile dimensions
// plus summed engagement, order and cost aggregates. It is rebuilt from
// scratch on every reconciliation and never persisted.
type CampaignRecord struct {
	InfluencerID  campaign.InfluencerID
	Name          string
	Category      string
	Gender        string
	Platform      string // canonical platform from the profile
	FollowerCount int64

	Posts    int64
	Reach    int64
	Likes    int64
	Comments int64

	Orders  int64
	Revenue decimal.Decimal
	Brands  []BrandContribution // sorted by brand name

	Cost        decimal.Decimal // consolidated payout amount
	PayoutBasis campaign.PayoutBasis
	HasPayout   bool
}

// Reconciliation is the output of one join pass: the record set (sorted by
// influencer ID), the findings list, and how many rows were excluded from
// aggregation.
type Reconciliation struct {
	Records          []CampaignRecord
	Findings         []campaign.Finding
	ExcludedPosts    int
	ExcludedTracking int
	ExcludedPayouts  int
}

// divergenceTolerance is the relative gap above which a supplied
// total_payout is flagged against its derived value.
var divergenceTolerance = decimal.NewFromFloat(0.01)

// =============================================================================
// RECONCILER
// =============================================================================

// Reconcile left-joins posts, tracking records and payouts onto influencers
// and returns the campaign record set with all data-quality findings.
func Reconcile(snap *campaign.Snapshot) Reconciliation {
	var rec Reconciliation
	if snap == nil {
		return rec
	}

	// Profile index. First row wins on duplicate influencer IDs.
	records := make(map[campaign.InfluencerID]*CampaignRecord, len(snap.Influencers))
	order := make([]campaign.InfluencerID, 0, len(snap.Influencers))
	for _, inf := range snap.Influencers {
		if _, dup := records[inf.ID]; dup {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingDuplicateID,
				campaign.DatasetInfluencers, string(inf.ID),
				"duplicate influencer_id %s: first row kept", inf.ID))
			continue
		}
		records[inf.ID] = &CampaignRecord{
			InfluencerID:  inf.ID,
			Name:          inf.Name,
			Category:      inf.Category,
			Gender:        inf.Gender,
			Platform:      inf.Platform,
			FollowerCount: inf.FollowerCount,
			Revenue:       decimal.Zero,
			Cost:          decimal.Zero,
		}
		order = append(order, inf.ID)
	}

	rec.joinPosts(snap.Posts, records)
	brandSplits := rec.joinTracking(snap.Tracking, records)
	rec.consolidatePayouts(snap.Payouts, records)

	// Missing payout rows leave cost at zero; downstream ROAS must show the
	// no-cost sentinel, not a zero.
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, id := range order {
		r := records[id]
		if !r.HasPayout {
			rec.Findings = append(rec.Findings, campaign.Info(campaign.FindingMissingPayout,
				campaign.DatasetPayouts, string(id),
				"influencer %s has no payout row: cost treated as zero", id))
		}
		r.Brands = sortedBrands(brandSplits[id])
		rec.Records = append(rec.Records, *r)
	}
	return rec
}

func (rec *Reconciliation) joinPosts(posts []campaign.Post, records map[campaign.InfluencerID]*CampaignRecord) {
	seen := make(map[campaign.PostID]bool, len(posts))
	for _, p := range posts {
		if p.ID != "" && seen[p.ID] {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingDuplicateID,
				campaign.DatasetPosts, string(p.ID), "duplicate post_id %s: later row ignored", p.ID))
			rec.ExcludedPosts++
			continue
		}
		seen[p.ID] = true

		r, ok := records[p.InfluencerID]
		if !ok {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingOrphanPost,
				campaign.DatasetPosts, string(p.ID),
				"post %s references unknown influencer %s", p.ID, p.InfluencerID))
			rec.ExcludedPosts++
			continue
		}
		if p.Reach < 0 || p.Likes < 0 || p.Comments < 0 {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingNegativeValue,
				campaign.DatasetPosts, string(p.ID),
				"post %s carries negative engagement values: excluded from aggregates", p.ID))
			rec.ExcludedPosts++
			continue
		}
		if p.Platform != "" && p.Platform != r.Platform {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingPlatformMismatch,
				campaign.DatasetPosts, string(p.ID),
				"post %s platform %q differs from influencer %s platform %q: influencer platform used",
				p.ID, p.Platform, r.InfluencerID, r.Platform))
			// Still aggregated, under the influencer's canonical platform.
		}
		r.Posts++
		r.Reach += p.Reach
		r.Likes += p.Likes
		r.Comments += p.Comments
	}
}

func (rec *Reconciliation) joinTracking(tracking []campaign.TrackingRecord, records map[campaign.InfluencerID]*CampaignRecord) map[campaign.InfluencerID]map[string]*BrandContribution {
	splits := make(map[campaign.InfluencerID]map[string]*BrandContribution)
	seen := make(map[campaign.TrackingID]bool, len(tracking))
	for _, t := range tracking {
		if t.ID != "" && seen[t.ID] {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingDuplicateID,
				campaign.DatasetTracking, string(t.ID), "duplicate tracking_id %s: later row ignored", t.ID))
			rec.ExcludedTracking++
			continue
		}
		seen[t.ID] = true

		r, ok := records[t.InfluencerID]
		if !ok {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingOrphanTracking,
				campaign.DatasetTracking, string(t.ID),
				"tracking record %s references unknown influencer %s", t.ID, t.InfluencerID))
			rec.ExcludedTracking++
			continue
		}
		if t.Orders < 0 || t.Revenue.IsNegative() {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingNegativeValue,
				campaign.DatasetTracking, string(t.ID),
				"tracking record %s carries negative orders or revenue: excluded from aggregates", t.ID))
			rec.ExcludedTracking++
			continue
		}
		r.Orders += t.Orders
		r.Revenue = r.Revenue.Add(t.Revenue)

		byBrand := splits[t.InfluencerID]
		if byBrand == nil {
			byBrand = make(map[string]*BrandContribution)
			splits[t.InfluencerID] = byBrand
		}
		c := byBrand[t.Brand]
		if c == nil {
			c = &BrandContribution{Brand: t.Brand, Revenue: decimal.Zero}
			byBrand[t.Brand] = c
		}
		c.Orders += t.Orders
		c.Revenue = c.Revenue.Add(t.Revenue)
	}
	return splits
}

func (rec *Reconciliation) consolidatePayouts(payouts []campaign.Payout, records map[campaign.InfluencerID]*CampaignRecord) {
	rowsPer := make(map[campaign.InfluencerID]int, len(payouts))
	for _, p := range payouts {
		r, ok := records[p.InfluencerID]
		if !ok {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingOrphanPayout,
				campaign.DatasetPayouts, string(p.InfluencerID),
				"payout references unknown influencer %s", p.InfluencerID))
			rec.ExcludedPayouts++
			continue
		}

		rowsPer[p.InfluencerID]++
		if rowsPer[p.InfluencerID] == 2 {
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingDuplicatePayout,
				campaign.DatasetPayouts, string(p.InfluencerID),
				"multiple payout rows for influencer %s: totals summed", p.InfluencerID))
		}

		derived := derivedPayout(p, r)
		amount := derived
		switch {
		case !p.HasTotal:
			rec.Findings = append(rec.Findings, campaign.Info(campaign.FindingDerivedPayout,
				campaign.DatasetPayouts, string(p.InfluencerID),
				"payout for %s had no total_payout: derived %s from %s basis", p.InfluencerID, derived.StringFixed(2), p.Basis))
		case diverges(p.TotalPayout, derived):
			amount = p.TotalPayout // supplied value kept, never overwritten
			rec.Findings = append(rec.Findings, campaign.Warn(campaign.FindingPayoutDivergence,
				campaign.DatasetPayouts, string(p.InfluencerID),
				"payout for %s: supplied total %s diverges more than 1%% from derived %s (%s basis)",
				p.InfluencerID, p.TotalPayout.StringFixed(2), derived.StringFixed(2), p.Basis))
		default:
			amount = p.TotalPayout
		}

		if !r.HasPayout {
			r.PayoutBasis = p.Basis
			r.HasPayout = true
		}
		r.Cost = r.Cost.Add(amount)
	}
}

// derivedPayout recomputes a payout amount from its terms. basis=post pays
// rate per valid post. basis=order pays a revenue share when the rate is
// fractional, otherwise rate per ordered unit from the payout row itself.
func derivedPayout(p campaign.Payout, r *CampaignRecord) decimal.Decimal {
	switch p.Basis {
	case campaign.BasisPost:
		return p.Rate.Mul(decimal.NewFromInt(r.Posts))
	case campaign.BasisOrder:
		if p.Rate.LessThanOrEqual(decimal.NewFromInt(1)) {
			return p.Rate.Mul(r.Revenue)
		}
		return p.Rate.Mul(decimal.NewFromInt(p.Orders))
	default:
		return decimal.Zero
	}
}

func diverges(supplied, derived decimal.Decimal) bool {
	diff := supplied.Sub(derived).Abs()
	if supplied.IsZero() {
		return !derived.IsZero()
	}
	return diff.GreaterThan(supplied.Abs().Mul(divergenceTolerance))
}

func sortedBrands(byBrand map[string]*BrandContribution) []BrandContribution {
	if len(byBrand) == 0 {
		return nil
	}
	out := make([]BrandContribution, 0, len(byBrand))
	for _, c := range byBrand {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Brand < out[j].Brand })
	return out
}
