/*
config.go - Analysis configuration

PURPOSE:
  Names every business assumption the engine leans on so none is hard-wired
  silently. The defaults reproduce the values the marketing team has been
  operating with; all of them are empirical conventions, not derived truths,
  and are expected to be revisited.

FIXED VS CONFIGURABLE:
  Break-even ROAS of 1.0 is a fixed business rule: an influencer returning
  less than was spent is underperforming no matter how thresholds are tuned.
  UnderperformerROAS can only raise the bar above 1.0, never lower it.
*/
package analytics

import "github.com/shopspring/decimal"

// =============================================================================
// SCORE WEIGHTS
// =============================================================================

// ScoreWeights sets the blend of the composite performance score. Weights
// are normalized before use, so any positive values work; only their
// proportions matter.
type ScoreWeights struct {
	ROAS       float64 `json:"roas"`
	Engagement float64 `json:"engagement"`
	Volume     float64 `json:"volume"`     // order volume
	Efficiency float64 `json:"efficiency"` // inverted cost per order
}

func (w ScoreWeights) total() float64 {
	return w.ROAS + w.Engagement + w.Volume + w.Efficiency
}

// =============================================================================
// CONFIG
// =============================================================================

// Config carries every tunable parameter of an analysis pass. The zero
// value is usable: Analyze fills unset fields from DefaultConfig.
type Config struct {
	// BaselineFraction is the share of attributed revenue assumed to occur
	// without any influencer activity; incremental ROAS subtracts it. Zero
	// is a legal value (incremental ROAS then equals regular ROAS), so
	// HasBaseline marks the field as explicitly set. Assigning a nonzero
	// fraction works without the flag; assigning zero requires it.
	BaselineFraction decimal.Decimal
	HasBaseline      bool

	// Weights is the performance-score blend.
	Weights ScoreWeights

	// UnderperformerROAS classifies an influencer as underperforming when
	// their ROAS falls below it. Values under break-even (1.0) are raised
	// to 1.0.
	UnderperformerROAS decimal.Decimal

	// TopPerformerPercentile is the performance-score share classified as
	// top performers (0.10 = top 10%).
	TopPerformerPercentile float64

	// ScalingROAS is the threshold above which a partnership is flagged as
	// worth scaling up.
	ScalingROAS decimal.Decimal

	// OutperformMargin triggers the budget-shift recommendation when the
	// best platform or category ROAS exceeds the runner-up by this factor.
	OutperformMargin float64
}

// DefaultConfig returns the operating defaults: 20% organic baseline,
// 30/25/25/20 score blend, break-even underperformer threshold, top decile,
// 3.0x scaling threshold and a 1.5x outperform margin.
func DefaultConfig() Config {
	return Config{
		BaselineFraction:       decimal.NewFromFloat(0.20),
		HasBaseline:            true,
		Weights:                ScoreWeights{ROAS: 0.30, Engagement: 0.25, Volume: 0.25, Efficiency: 0.20},
		UnderperformerROAS:     decimal.NewFromInt(1),
		TopPerformerPercentile: 0.10,
		ScalingROAS:            decimal.NewFromInt(3),
		OutperformMargin:       1.5,
	}
}

// breakEvenROAS is the fixed business floor: ROAS below 1.0 is always
// underperforming.
var breakEvenROAS = decimal.NewFromInt(1)

// withDefaults fills unset fields and enforces the break-even floor.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if !c.HasBaseline && c.BaselineFraction.IsZero() {
		c.BaselineFraction = def.BaselineFraction
	}
	c.HasBaseline = true
	if c.Weights.total() <= 0 {
		c.Weights = def.Weights
	}
	if c.UnderperformerROAS.LessThan(breakEvenROAS) {
		c.UnderperformerROAS = breakEvenROAS
	}
	if c.TopPerformerPercentile <= 0 || c.TopPerformerPercentile > 1 {
		c.TopPerformerPercentile = def.TopPerformerPercentile
	}
	if c.ScalingROAS.IsZero() {
		c.ScalingROAS = def.ScalingROAS
	}
	if c.OutperformMargin <= 1 {
		c.OutperformMargin = def.OutperformMargin
	}
	return c
}
