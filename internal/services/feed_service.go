// Package services – FeedService
//
// The discovery feed hands each user a snapshot of candidate profiles,
// shuffled, always excluding the user themselves. Fetch builds a fresh
// snapshot; Next advances within the most recent one and reports exhaustion
// as a terminal, non-error condition. Snapshots live in process memory only:
// they are a browsing position, not data.
package services

import (
	"context"
	"math/rand"
	"sync"

	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
)

// FeedService serves candidate profiles for discovery.
type FeedService struct {
	DB       *gorm.DB
	PageSize int

	mu        sync.Mutex
	snapshots map[string][]domain.Summary
}

// Fetch builds and returns a fresh shuffled snapshot of candidates for
// userID, replacing any previous one.
func (s *FeedService) Fetch(ctx context.Context, userID string) ([]domain.Summary, error) {
	profiles, err := repo.ListCandidates(ctx, s.DB, userID, s.PageSize)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Summary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Summary())
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	s.mu.Lock()
	if s.snapshots == nil {
		s.snapshots = make(map[string][]domain.Summary)
	}
	s.snapshots[userID] = out
	s.mu.Unlock()
	return out, nil
}

// Next returns the candidate after currentID in the user's latest snapshot.
// ok is false when the snapshot is exhausted (or currentID was its last
// entry); that is the feed's terminal state, not an error. With no snapshot
// yet, or an unknown currentID, a fresh snapshot is taken and its first
// candidate returned.
func (s *FeedService) Next(ctx context.Context, userID, currentID string) (domain.Summary, bool, error) {
	s.mu.Lock()
	snap, have := s.snapshots[userID]
	s.mu.Unlock()

	if have && currentID != "" {
		for i, c := range snap {
			if c.ID != currentID {
				continue
			}
			if i+1 < len(snap) {
				return snap[i+1], true, nil
			}
			return domain.Summary{}, false, nil // exhausted
		}
	}

	snap, err := s.Fetch(ctx, userID)
	if err != nil {
		return domain.Summary{}, false, err
	}
	if len(snap) == 0 {
		return domain.Summary{}, false, nil
	}
	return snap[0], true, nil
}

// Forget drops the user's snapshot, e.g. on account deletion.
func (s *FeedService) Forget(userID string) {
	s.mu.Lock()
	delete(s.snapshots, userID)
	s.mu.Unlock()
}
