package analytics_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitraun/healthkart-influencer-dashboard/analytics"
)

func TestRatio_SafeDiv(t *testing.T) {
	defined := analytics.SafeDiv(decimal.NewFromInt(10), decimal.NewFromInt(4))
	require.True(t, defined.Defined())
	assert.True(t, defined.Decimal().Equal(decimal.NewFromFloat(2.5)))

	undefined := analytics.SafeDiv(decimal.NewFromInt(10), decimal.Zero)
	assert.False(t, undefined.Defined())
	assert.Equal(t, "undefined", undefined.String())
}

func TestRatio_ThresholdsIgnoreUndefined(t *testing.T) {
	// An undefined ratio compares false against every threshold; no-cost
	// influencers must not trip break-even rules.

	u := analytics.UndefinedRatio()
	assert.False(t, u.LessThan(decimal.NewFromInt(1)))
	assert.False(t, u.GreaterThan(decimal.NewFromInt(-100)))
}

func TestRatio_CmpOrdersUndefinedLast(t *testing.T) {
	low := analytics.DefinedRatio(decimal.NewFromFloat(-5))
	high := analytics.DefinedRatio(decimal.NewFromFloat(3))
	u := analytics.UndefinedRatio()

	assert.Equal(t, 1, high.Cmp(low))
	assert.Equal(t, 1, low.Cmp(u), "any defined value sorts above undefined")
	assert.Equal(t, -1, u.Cmp(high))
	assert.Equal(t, 0, u.Cmp(analytics.UndefinedRatio()))
}

func TestRatio_JSONNullRoundTrip(t *testing.T) {
	// Undefined crosses JSON boundaries as null, never 0.

	b, err := json.Marshal(analytics.UndefinedRatio())
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var r analytics.Ratio
	require.NoError(t, json.Unmarshal([]byte("null"), &r))
	assert.False(t, r.Defined())

	require.NoError(t, json.Unmarshal([]byte("2.5"), &r))
	require.True(t, r.Defined())
	assert.True(t, r.Decimal().Equal(decimal.NewFromFloat(2.5)))
}
