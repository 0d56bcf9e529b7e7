/*
snapshot.go - Immutable four-table input bundle

PURPOSE:
  A Snapshot is the unit of input for one analysis pass: all four datasets,
  fully materialized. The pipeline never reads from a live store mid-run, so
  concurrent uploads cannot produce a half-old, half-new analysis. Callers
  that mutate datasets build a fresh Snapshot and run again.

HASHING:
  Hash() returns a stable content digest over every row. Two snapshots with
  identical data hash identically, so callers may memoize analysis results
  keyed by (hash, config) to skip redundant recomputation. This is an
  optimization hook only; re-running on equal input yields equal output
  regardless.
*/
package campaign

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Snapshot bundles the four datasets for one analysis pass. The analysis
// pipeline treats it as read-only; Clone exists for callers that need an
// independent copy.
type Snapshot struct {
	Influencers []Influencer
	Posts       []Post
	Tracking    []TrackingRecord
	Payouts     []Payout
}

// Empty reports whether no influencer profiles are loaded. Posts, tracking
// and payouts without profiles are all orphans, so influencers are the
// gating table.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Influencers) == 0
}

// Counts returns the row count per dataset.
func (s *Snapshot) Counts() map[Dataset]int {
	if s == nil {
		return map[Dataset]int{}
	}
	return map[Dataset]int{
		DatasetInfluencers: len(s.Influencers),
		DatasetPosts:       len(s.Posts),
		DatasetTracking:    len(s.Tracking),
		DatasetPayouts:     len(s.Payouts),
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	c := &Snapshot{
		Influencers: make([]Influencer, len(s.Influencers)),
		Posts:       make([]Post, len(s.Posts)),
		Tracking:    make([]TrackingRecord, len(s.Tracking)),
		Payouts:     make([]Payout, len(s.Payouts)),
	}
	copy(c.Influencers, s.Influencers)
	copy(c.Posts, s.Posts)
	copy(c.Tracking, s.Tracking)
	copy(c.Payouts, s.Payouts)
	return c
}

// Hash returns a hex digest of the snapshot contents. Row order matters:
// the digest identifies the exact table state, not a set-equivalent one.
func (s *Snapshot) Hash() string {
	h := sha256.New()
	if s != nil {
		for _, i := range s.Influencers {
			writeRow(h, "inf", string(i.ID), i.Name, i.Category, i.Gender, i.Platform, fmt.Sprint(i.FollowerCount))
		}
		for _, p := range s.Posts {
			writeRow(h, "post", string(p.ID), string(p.InfluencerID), p.Platform, p.Date.Format("2006-01-02"),
				fmt.Sprint(p.Reach), fmt.Sprint(p.Likes), fmt.Sprint(p.Comments))
		}
		for _, t := range s.Tracking {
			writeRow(h, "trk", string(t.ID), string(t.InfluencerID), t.Campaign, t.Brand, t.Product,
				t.Date.Format("2006-01-02"), fmt.Sprint(t.Orders), t.Revenue.String())
		}
		for _, p := range s.Payouts {
			writeRow(h, "pay", string(p.InfluencerID), string(p.Basis), p.Rate.String(),
				fmt.Sprint(p.Orders), p.TotalPayout.String(), fmt.Sprint(p.HasTotal))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeRow(w io.Writer, fields ...string) {
	for _, f := range fields {
		io.WriteString(w, f)
		io.WriteString(w, "\x1f")
	}
	io.WriteString(w, "\n")
}
