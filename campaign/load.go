/*
load.go - Column-validated construction from tabular input

PURPOSE:
  The single boundary where loose tabular data (CSV uploads, generated
  fixtures, spreadsheet exports) becomes typed rows. All column lookups
  happen here, once; the rest of the pipeline works with structs and never
  consults column names again.

VALIDATION CONTRACT:
  - Missing required columns are a hard failure (SchemaError); the dataset
    is rejected and nothing downstream runs.
  - Unknown extra columns are ignored.
  - A cell that cannot be parsed into its column type is a hard failure
    with the row number in the error.
  - Relationship problems (orphans, duplicates, negative values) are NOT
    checked here. The loader accepts any well-formed rows; reconciliation
    reports inconsistencies as findings.

COLUMN LAYOUTS:
  influencers: influencer_id, name, category, gender, follower_count, platform
  posts:       post_id, influencer_id, platform, date, reach, likes, comments
  tracking:    tracking_id, influencer_id, campaign, brand, product, date,
               orders, revenue
  payouts:     influencer_id, basis, rate, orders [, total_payout]

  total_payout is the one optional column: sources that do not precompute it
  leave it out and the reconciler derives it from basis and rate.
*/
package campaign

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table is loosely-typed tabular input: a header row plus data rows, as
// produced by a CSV reader or any export. Cell count per row may exceed the
// header; short rows are padded with empty cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

const dateLayout = "2006-01-02"

// =============================================================================
// COLUMN INDEX - Resolves required columns once per table
// =============================================================================

type columnIndex struct {
	dataset Dataset
	pos     map[string]int
}

func indexColumns(ds Dataset, t Table, required []string) (*columnIndex, *SchemaError) {
	pos := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		pos[strings.ToLower(strings.TrimSpace(c))] = i
	}
	var missing []string
	for _, c := range required {
		if _, ok := pos[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Dataset: ds, Missing: missing}
	}
	return &columnIndex{dataset: ds, pos: pos}, nil
}

func (ix *columnIndex) cell(row []string, col string) string {
	i, ok := ix.pos[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rowReader parses one row's cells, remembering the first failure.
type rowReader struct {
	ix  *columnIndex
	row []string
	n   int // 1-based data row number
	err *SchemaError
}

func (r *rowReader) fail(col, val string) {
	if r.err == nil {
		r.err = &SchemaError{Dataset: r.ix.dataset, Row: r.n, Column: col, Value: val}
	}
}

func (r *rowReader) text(col string) string { return r.ix.cell(r.row, col) }

// integer parses an int64 cell. Empty cells read as zero; sources routinely
// leave counters blank for no-activity rows.
func (r *rowReader) integer(col string) int64 {
	s := r.text(col)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Tolerate "12.0" style exports
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			r.fail(col, s)
			return 0
		}
		return int64(f)
	}
	return v
}

func (r *rowReader) money(col string) decimal.Decimal {
	s := r.text(col)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.fail(col, s)
		return decimal.Zero
	}
	return d
}

func (r *rowReader) date(col string) time.Time {
	s := r.text(col)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		r.fail(col, s)
		return time.Time{}
	}
	return t
}

// =============================================================================
// DATASET LOADERS
// =============================================================================

// ParseInfluencers builds the influencer dataset from tabular input.
func ParseInfluencers(t Table) ([]Influencer, error) {
	ix, serr := indexColumns(DatasetInfluencers, t,
		[]string{"influencer_id", "name", "category", "gender", "follower_count", "platform"})
	if serr != nil {
		return nil, serr
	}
	out := make([]Influencer, 0, len(t.Rows))
	for n, row := range t.Rows {
		r := rowReader{ix: ix, row: row, n: n + 1}
		inf := Influencer{
			ID:            InfluencerID(r.text("influencer_id")),
			Name:          r.text("name"),
			Category:      r.text("category"),
			Gender:        r.text("gender"),
			FollowerCount: r.integer("follower_count"),
			Platform:      r.text("platform"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, inf)
	}
	return out, nil
}

// ParsePosts builds the post dataset from tabular input.
func ParsePosts(t Table) ([]Post, error) {
	ix, serr := indexColumns(DatasetPosts, t,
		[]string{"post_id", "influencer_id", "platform", "date", "reach", "likes", "comments"})
	if serr != nil {
		return nil, serr
	}
	out := make([]Post, 0, len(t.Rows))
	for n, row := range t.Rows {
		r := rowReader{ix: ix, row: row, n: n + 1}
		p := Post{
			ID:           PostID(r.text("post_id")),
			InfluencerID: InfluencerID(r.text("influencer_id")),
			Platform:     r.text("platform"),
			Date:         r.date("date"),
			Reach:        r.integer("reach"),
			Likes:        r.integer("likes"),
			Comments:     r.integer("comments"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseTracking builds the order-tracking dataset from tabular input.
func ParseTracking(t Table) ([]TrackingRecord, error) {
	ix, serr := indexColumns(DatasetTracking, t,
		[]string{"tracking_id", "influencer_id", "campaign", "brand", "product", "date", "orders", "revenue"})
	if serr != nil {
		return nil, serr
	}
	out := make([]TrackingRecord, 0, len(t.Rows))
	for n, row := range t.Rows {
		r := rowReader{ix: ix, row: row, n: n + 1}
		tr := TrackingRecord{
			ID:           TrackingID(r.text("tracking_id")),
			InfluencerID: InfluencerID(r.text("influencer_id")),
			Campaign:     r.text("campaign"),
			Brand:        r.text("brand"),
			Product:      r.text("product"),
			Date:         r.date("date"),
			Orders:       r.integer("orders"),
			Revenue:      r.money("revenue"),
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, tr)
	}
	return out, nil
}

// ParsePayouts builds the payout dataset from tabular input. The
// total_payout column is optional; when the column or an individual cell is
// blank the row is marked HasTotal=false and the amount is derived during
// reconciliation.
func ParsePayouts(t Table) ([]Payout, error) {
	ix, serr := indexColumns(DatasetPayouts, t,
		[]string{"influencer_id", "basis", "rate", "orders"})
	if serr != nil {
		return nil, serr
	}
	_, hasTotalCol := ix.pos["total_payout"]
	out := make([]Payout, 0, len(t.Rows))
	for n, row := range t.Rows {
		r := rowReader{ix: ix, row: row, n: n + 1}
		p := Payout{
			InfluencerID: InfluencerID(r.text("influencer_id")),
			Rate:         r.money("rate"),
			Orders:       r.integer("orders"),
		}
		switch strings.ToLower(r.text("basis")) {
		case string(BasisPost):
			p.Basis = BasisPost
		case string(BasisOrder):
			p.Basis = BasisOrder
		default:
			r.fail("basis", r.text("basis"))
		}
		if hasTotalCol && r.text("total_payout") != "" {
			p.TotalPayout = r.money("total_payout")
			p.HasTotal = true
		}
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, p)
	}
	return out, nil
}

// ParseDataset dispatches to the loader for the named dataset and returns
// the parsed rows as one of the four row slices.
func ParseDataset(ds Dataset, t Table) (any, error) {
	switch ds {
	case DatasetInfluencers:
		return ParseInfluencers(t)
	case DatasetPosts:
		return ParsePosts(t)
	case DatasetTracking:
		return ParseTracking(t)
	case DatasetPayouts:
		return ParsePayouts(t)
	default:
		return nil, ErrUnknownDataset
	}
}
