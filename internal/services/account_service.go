// Package services – AccountService
//
// Account deletion cascades through everything the user owns, in dependency
// order: messages in the user's matches, then the matches, then interests on
// either side, then idempotency records, then the profile itself. Every step
// deletes by predicate, so a retry of a partially completed delete finishes
// the job instead of failing.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/cache"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
)

// AccountService owns account-level lifecycle operations.
type AccountService struct {
	DB    *gorm.DB
	Cache *cache.RedisCache // nil disables cache invalidation
	Feed  *FeedService      // optional, to drop the feed snapshot
}

// Delete removes the user and everything attached to them. Idempotent:
// deleting an already-deleted account succeeds.
func (s *AccountService) Delete(ctx context.Context, userID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matchIDs, err := repo.ListMatchIDsFor(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := repo.DeleteMessagesInMatches(ctx, tx, matchIDs); err != nil {
			return err
		}
		if err := repo.DeleteMatchesFor(ctx, tx, userID); err != nil {
			return err
		}
		if err := repo.DeleteInterestsFor(ctx, tx, userID); err != nil {
			return err
		}
		if err := repo.DeleteIdempotencyFor(ctx, tx, userID); err != nil {
			return err
		}
		return repo.DeleteProfile(ctx, tx, userID)
	})
	if err != nil {
		return err
	}

	_ = s.Cache.InvalidateLikeCount(ctx, userID)
	if s.Feed != nil {
		s.Feed.Forget(userID)
	}
	return nil
}
