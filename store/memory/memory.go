// Package memory provides an in-memory DatasetStore for tests and
// ephemeral serving.
package memory

import (
	"context"
	"sync"

	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu   sync.RWMutex
	snap campaign.Snapshot
}

func New() *Store {
	return &Store{}
}

func (s *Store) ReplaceInfluencers(_ context.Context, rows []campaign.Influencer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Influencers = append([]campaign.Influencer(nil), rows...)
	return nil
}

func (s *Store) ReplacePosts(_ context.Context, rows []campaign.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Posts = append([]campaign.Post(nil), rows...)
	return nil
}

func (s *Store) ReplaceTracking(_ context.Context, rows []campaign.TrackingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Tracking = append([]campaign.TrackingRecord(nil), rows...)
	return nil
}

func (s *Store) ReplacePayouts(_ context.Context, rows []campaign.Payout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Payouts = append([]campaign.Payout(nil), rows...)
	return nil
}

// Snapshot returns a deep copy; later Replace calls do not affect it.
func (s *Store) Snapshot(_ context.Context) (*campaign.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = campaign.Snapshot{}
	return nil
}

func (s *Store) Close() error { return nil }
