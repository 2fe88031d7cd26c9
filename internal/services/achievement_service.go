// Package services – AchievementService
//
// Achievements are evaluated lazily: whenever a profile is served through
// DecorateProfile, the fixed catalog's predicates run against the profile and
// its activity counters, and any newly unlocked ids are persisted before the
// profile is returned. Unlocks are append-only and evaluation is idempotent,
// so concurrent decorations converge on the same set.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
)

// AchievementService evaluates and persists achievement unlocks.
type AchievementService struct {
	DB *gorm.DB
}

// Catalog returns the fixed achievement catalog.
func (s *AchievementService) Catalog() []domain.Achievement {
	return domain.Catalog()
}

// DecorateProfile evaluates the catalog against p and persists any new
// unlocks, mutating p.Achievements in place. Returns the newly unlocked ids.
func (s *AchievementService) DecorateProfile(ctx context.Context, p *domain.UserProfile) ([]string, error) {
	stats, err := s.statsFor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	newIDs := domain.EvaluateAchievements(p, stats)
	if len(newIDs) == 0 {
		return nil, nil
	}
	p.Achievements = append(p.Achievements, newIDs...)
	if err := repo.UpdateAchievements(ctx, s.DB, p.ID, p.Achievements); err != nil {
		return nil, err
	}
	return newIDs, nil
}

func (s *AchievementService) statsFor(ctx context.Context, userID string) (domain.ActivityStats, error) {
	var stats domain.ActivityStats
	var err error
	if stats.Matches, err = repo.CountMatchesFor(ctx, s.DB, userID); err != nil {
		return stats, err
	}
	if stats.MessagesSent, err = repo.CountMessagesBySender(ctx, s.DB, userID); err != nil {
		return stats, err
	}
	if stats.LikesReceived, err = repo.CountAdmirers(ctx, s.DB, userID); err != nil {
		return stats, err
	}
	return stats, nil
}
