/*
Package analytics is the campaign analysis engine: it reconciles the four
source datasets into per-influencer campaign records, derives engagement and
financial metrics at several aggregation grains, and turns the metrics into
rankings, performance tiers and rule-based recommendations.

PURPOSE:
  Every stage is a pure transform over an immutable campaign.Snapshot.
  Re-running on unchanged input yields identical output; nothing here holds
  state between passes.

PIPELINE:
  Snapshot -> Reconcile -> ComputeInfluencerMetrics / Group* -> Insights

KEY CONCEPTS IN THIS FILE (ratio.go):
  - Ratio: a division result that may be undefined. ROAS with zero cost and
    cost-per-order with zero orders are UNDEFINED, not zero: an influencer
    we paid nothing is not a zero-performing influencer. The sentinel is
    carried explicitly through aggregation, scoring and ranking so each
    consumer decides what "undefined" means for it, instead of inheriting a
    silent 0 or Inf.

SEE ALSO:
  - reconcile.go: Snapshot -> CampaignRecord set + findings
  - metrics.go:   CampaignRecord -> metric tables
  - insights.go:  metric tables -> rankings, tiers, recommendations
*/
package analytics

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATIO - Division result with an explicit undefined state
// =============================================================================

// Ratio is a quotient that is either defined with an exact decimal value or
// undefined (division by zero). The zero value is the undefined ratio.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// DefinedRatio wraps a concrete quotient value.
func DefinedRatio(v decimal.Decimal) Ratio {
	return Ratio{value: v, defined: true}
}

// UndefinedRatio is the sentinel for a division with a zero denominator.
func UndefinedRatio() Ratio { return Ratio{} }

// SafeDiv divides num by den, returning the undefined sentinel when den is
// zero. This is the only division the metric formulas use.
func SafeDiv(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return UndefinedRatio()
	}
	return DefinedRatio(num.Div(den))
}

// Defined reports whether the ratio carries a value.
func (r Ratio) Defined() bool { return r.defined }

// Decimal returns the quotient, or decimal zero when undefined. Callers that
// care about the distinction must check Defined first.
func (r Ratio) Decimal() decimal.Decimal { return r.value }

// Float64 returns the quotient as a float64, or 0 when undefined.
func (r Ratio) Float64() float64 {
	if !r.defined {
		return 0
	}
	f, _ := r.value.Float64()
	return f
}

// Float64Ptr returns nil when undefined, which is how the sentinel crosses
// JSON boundaries (null, never 0).
func (r Ratio) Float64Ptr() *float64 {
	if !r.defined {
		return nil
	}
	f := r.Float64()
	return &f
}

// LessThan reports whether the ratio is defined and below v. An undefined
// ratio compares false against every threshold: no-cost influencers do not
// trip break-even rules.
func (r Ratio) LessThan(v decimal.Decimal) bool {
	return r.defined && r.value.LessThan(v)
}

// GreaterThan reports whether the ratio is defined and above v.
func (r Ratio) GreaterThan(v decimal.Decimal) bool {
	return r.defined && r.value.GreaterThan(v)
}

// Cmp orders ratios for ranking: undefined sorts strictly below every
// defined value, two undefined ratios are equal.
func (r Ratio) Cmp(o Ratio) int {
	switch {
	case r.defined && o.defined:
		return r.value.Cmp(o.value)
	case r.defined:
		return 1
	case o.defined:
		return -1
	default:
		return 0
	}
}

// String renders the value or "undefined" for logs and rationales.
func (r Ratio) String() string {
	if !r.defined {
		return "undefined"
	}
	return r.value.StringFixed(2)
}

// MarshalJSON encodes undefined as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON decodes null as the undefined sentinel.
func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Ratio{}
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	*r = DefinedRatio(d)
	return nil
}
