/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SENTINELS ON THE WIRE:
  Undefined ratios (no-cost ROAS, no-order cost-per-order) serialize as
  null via *float64, never as 0. Clients must render "n/a", not a zero.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/gitraun/healthkart-influencer-dashboard/analytics"
	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// DatasetStatusDTO reports what is currently loaded.
type DatasetStatusDTO struct {
	Loaded bool           `json:"loaded"`
	Counts map[string]int `json:"counts"`
}

// UploadResponse confirms an accepted dataset upload.
type UploadResponse struct {
	UploadID string `json:"upload_id"`
	Dataset  string `json:"dataset"`
	Rows     int    `json:"rows"`
}

// SampleDataRequest configures generated demo data.
type SampleDataRequest struct {
	Seed        int64 `json:"seed,omitempty"`
	Influencers int   `json:"influencers,omitempty"`
}

// RecordDTO is one reconciled campaign record.
type RecordDTO struct {
	InfluencerID  string          `json:"influencer_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Gender        string          `json:"gender"`
	Platform      string          `json:"platform"`
	FollowerCount int64           `json:"follower_count"`
	Posts         int64           `json:"posts"`
	Reach         int64           `json:"reach"`
	Likes         int64           `json:"likes"`
	Comments      int64           `json:"comments"`
	Orders        int64           `json:"orders"`
	Revenue       float64         `json:"revenue"`
	Cost          float64         `json:"cost"`
	PayoutBasis   string          `json:"payout_basis,omitempty"`
	Brands        []BrandShareDTO `json:"brands,omitempty"`
}

// BrandShareDTO is one brand's slice of a record's revenue.
type BrandShareDTO struct {
	Brand   string  `json:"brand"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// InfluencerMetricsDTO is one influencer's full metric row.
type InfluencerMetricsDTO struct {
	InfluencerID     string   `json:"influencer_id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Platform         string   `json:"platform"`
	Orders           int64    `json:"orders"`
	Revenue          float64  `json:"revenue"`
	Cost             float64  `json:"cost"`
	EngagementRate   float64  `json:"engagement_rate"`
	ROAS             *float64 `json:"roas"`
	IncrementalROAS  *float64 `json:"incremental_roas"`
	CostPerOrder     *float64 `json:"cost_per_order"`
	RevenuePerOrder  *float64 `json:"revenue_per_order"`
	PerformanceScore float64  `json:"performance_score"`
}

// GroupMetricsDTO is one platform/category/brand rollup row.
type GroupMetricsDTO struct {
	Key             string   `json:"key"`
	Influencers     int      `json:"influencers"`
	Posts           int64    `json:"posts"`
	Reach           int64    `json:"reach"`
	Orders          int64    `json:"orders"`
	Revenue         float64  `json:"revenue"`
	Cost            float64  `json:"cost"`
	EngagementRate  float64  `json:"engagement_rate"`
	ROAS            *float64 `json:"roas"`
	IncrementalROAS *float64 `json:"incremental_roas"`
	CostPerOrder    *float64 `json:"cost_per_order"`
	AvgOrderValue   *float64 `json:"avg_order_value"`
}

// RankingDTO is one full ordering of the population.
type RankingDTO struct {
	Metric  string         `json:"metric"`
	Entries []RankEntryDTO `json:"entries"`
}

type RankEntryDTO struct {
	Rank         int      `json:"rank"`
	InfluencerID string   `json:"influencer_id"`
	Name         string   `json:"name"`
	Value        *float64 `json:"value"`
}

// ClassificationDTO is one influencer's performance tier.
type ClassificationDTO struct {
	InfluencerID     string   `json:"influencer_id"`
	Name             string   `json:"name"`
	Tier             string   `json:"tier"`
	PerformanceScore float64  `json:"performance_score"`
	ROAS             *float64 `json:"roas"`
}

// RecommendationDTO is one actionable recommendation.
type RecommendationDTO struct {
	Type      string `json:"type"`
	Subject   string `json:"subject"`
	Kind      string `json:"kind"`
	Priority  string `json:"priority"`
	Rationale string `json:"rationale"`
	Action    string `json:"action"`
}

// SummaryDTO is the executive rollup.
type SummaryDTO struct {
	Influencers     int      `json:"influencers"`
	TotalRevenue    float64  `json:"total_revenue"`
	TotalCost       float64  `json:"total_cost"`
	OverallROAS     *float64 `json:"overall_roas"`
	IncrementalROAS *float64 `json:"incremental_roas"`
	AvgScore        float64  `json:"avg_performance_score"`
	ProfitablePct   float64  `json:"profitable_influencers_pct"`
	BestPlatform    string   `json:"best_platform,omitempty"`
}

// ReportDTO bundles the full analysis output.
type ReportDTO struct {
	SnapshotHash     string                 `json:"snapshot_hash"`
	Summary          SummaryDTO             `json:"summary"`
	Records          []RecordDTO            `json:"records"`
	Influencers      []InfluencerMetricsDTO `json:"influencers"`
	Platforms        []GroupMetricsDTO      `json:"platforms"`
	Categories       []GroupMetricsDTO      `json:"categories"`
	Brands           []GroupMetricsDTO      `json:"brands"`
	Findings         []campaign.Finding     `json:"findings"`
	ExcludedPosts    int                    `json:"excluded_posts"`
	ExcludedTracking int                    `json:"excluded_tracking"`
	ExcludedPayouts  int                    `json:"excluded_payouts"`
	Rankings         []RankingDTO           `json:"rankings"`
	Classifications  []ClassificationDTO    `json:"classifications"`
	Recommendations  []RecommendationDTO    `json:"recommendations"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func toRecordDTO(r analytics.CampaignRecord) RecordDTO {
	dto := RecordDTO{
		InfluencerID:  string(r.InfluencerID),
		Name:          r.Name,
		Category:      r.Category,
		Gender:        r.Gender,
		Platform:      r.Platform,
		FollowerCount: r.FollowerCount,
		Posts:         r.Posts,
		Reach:         r.Reach,
		Likes:         r.Likes,
		Comments:      r.Comments,
		Orders:        r.Orders,
		Revenue:       money(r.Revenue),
		Cost:          money(r.Cost),
		PayoutBasis:   string(r.PayoutBasis),
	}
	for _, b := range r.Brands {
		dto.Brands = append(dto.Brands, BrandShareDTO{Brand: b.Brand, Orders: b.Orders, Revenue: money(b.Revenue)})
	}
	return dto
}

func toInfluencerMetricsDTO(m analytics.InfluencerMetrics) InfluencerMetricsDTO {
	return InfluencerMetricsDTO{
		InfluencerID:     string(m.InfluencerID),
		Name:             m.Name,
		Category:         m.Category,
		Platform:         m.Platform,
		Orders:           m.Orders,
		Revenue:          money(m.Revenue),
		Cost:             money(m.Cost),
		EngagementRate:   money(m.EngagementRate),
		ROAS:             m.ROAS.Float64Ptr(),
		IncrementalROAS:  m.IncrementalROAS.Float64Ptr(),
		CostPerOrder:     m.CostPerOrder.Float64Ptr(),
		RevenuePerOrder:  m.RevenuePerOrder.Float64Ptr(),
		PerformanceScore: m.PerformanceScore,
	}
}

func toGroupMetricsDTO(g analytics.GroupMetrics) GroupMetricsDTO {
	return GroupMetricsDTO{
		Key:             g.Key,
		Influencers:     g.Influencers,
		Posts:           g.Posts,
		Reach:           g.Reach,
		Orders:          g.Orders,
		Revenue:         money(g.Revenue),
		Cost:            money(g.Cost),
		EngagementRate:  money(g.EngagementRate),
		ROAS:            g.ROAS.Float64Ptr(),
		IncrementalROAS: g.IncrementalROAS.Float64Ptr(),
		CostPerOrder:    g.CostPerOrder.Float64Ptr(),
		AvgOrderValue:   g.AvgOrderValue.Float64Ptr(),
	}
}

func toGroupMetricsDTOs(gs []analytics.GroupMetrics) []GroupMetricsDTO {
	out := make([]GroupMetricsDTO, len(gs))
	for i, g := range gs {
		out[i] = toGroupMetricsDTO(g)
	}
	return out
}

func toRankingDTO(r analytics.Ranking) RankingDTO {
	dto := RankingDTO{Metric: string(r.Metric), Entries: make([]RankEntryDTO, len(r.Entries))}
	for i, e := range r.Entries {
		dto.Entries[i] = RankEntryDTO{
			Rank:         e.Rank,
			InfluencerID: string(e.InfluencerID),
			Name:         e.Name,
			Value:        e.Value.Float64Ptr(),
		}
	}
	return dto
}

func toSummaryDTO(s analytics.Summary) SummaryDTO {
	return SummaryDTO{
		Influencers:     s.Influencers,
		TotalRevenue:    money(s.TotalRevenue),
		TotalCost:       money(s.TotalCost),
		OverallROAS:     s.OverallROAS.Float64Ptr(),
		IncrementalROAS: s.IncrementalROAS.Float64Ptr(),
		AvgScore:        s.AvgScore,
		ProfitablePct:   s.ProfitablePct,
		BestPlatform:    s.BestPlatform,
	}
}

func toReportDTO(r *analytics.Report) ReportDTO {
	dto := ReportDTO{
		SnapshotHash:     r.SnapshotHash,
		Summary:          toSummaryDTO(r.Summary),
		Platforms:        toGroupMetricsDTOs(r.Platforms),
		Categories:       toGroupMetricsDTOs(r.Categories),
		Brands:           toGroupMetricsDTOs(r.Brands),
		Findings:         r.Findings,
		ExcludedPosts:    r.ExcludedPosts,
		ExcludedTracking: r.ExcludedTracking,
		ExcludedPayouts:  r.ExcludedPayouts,
	}
	for _, rec := range r.Records {
		dto.Records = append(dto.Records, toRecordDTO(rec))
	}
	for _, m := range r.Influencers {
		dto.Influencers = append(dto.Influencers, toInfluencerMetricsDTO(m))
	}
	for _, rk := range r.Rankings {
		dto.Rankings = append(dto.Rankings, toRankingDTO(rk))
	}
	for _, c := range r.Classifications {
		dto.Classifications = append(dto.Classifications, ClassificationDTO{
			InfluencerID:     string(c.InfluencerID),
			Name:             c.Name,
			Tier:             string(c.Tier),
			PerformanceScore: c.PerformanceScore,
			ROAS:             c.ROAS.Float64Ptr(),
		})
	}
	for _, rec := range r.Recommendations {
		dto.Recommendations = append(dto.Recommendations, RecommendationDTO{
			Type:      rec.Type,
			Subject:   rec.Subject,
			Kind:      string(rec.Kind),
			Priority:  string(rec.Priority),
			Rationale: rec.Rationale,
			Action:    rec.Action,
		})
	}
	return dto
}
