// Package services – InterestService
//
// This file implements InterestService, the application-level component that
// records one-directional interest ("likes") and resolves mutual interest
// into matches. Recording is idempotent, and match creation is guarded both
// by a transaction around the reciprocity check and by the canonical pair-key
// unique index, so two users liking each other concurrently always end up
// with exactly one match; the racing loser is handed the existing row.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jooseepaardoo/gymconnect-backend/internal/cache"
	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
)

// Admirer pairs an interest with the public profile of the user who sent it.
type Admirer struct {
	Profile  domain.Summary  `json:"profile"`
	Interest domain.Interest `json:"interest"`
}

// InterestService coordinates likes, reciprocity detection, and the cached
// like counter.
type InterestService struct {
	DB    *gorm.DB
	Cache *cache.RedisCache // nil disables caching
}

// Record stores subject -> target interest and, when the reverse interest
// already exists, resolves the pair into a match. The returned match is
// non-nil whenever the pair is mutual, whether this call created it or not.
func (s *InterestService) Record(ctx context.Context, subjectID, targetID string) (*domain.Interest, *domain.Match, error) {
	tr := otel.Tracer("services/InterestService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(
			attribute.String("interest.subject", subjectID),
			attribute.String("interest.target", targetID),
		),
	)
	defer span.End()

	if subjectID == targetID {
		return nil, nil, ErrSelfInterest
	}
	if _, err := repo.GetProfile(ctx, s.DB, targetID); err != nil {
		return nil, nil, ErrTargetNotFound
	}

	var (
		interest *domain.Interest
		match    *domain.Match
		created  bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		interest, created, err = repo.CreateInterest(ctx, tx, subjectID, targetID)
		if err != nil {
			return err
		}
		mutual, err := repo.HasInterest(ctx, tx, targetID, subjectID)
		if err != nil {
			return err
		}
		if mutual {
			match, _, err = repo.CreateMatch(ctx, tx, subjectID, targetID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if created {
		_ = s.Cache.IncrLikeCount(ctx, targetID)
	}
	return interest, match, nil
}

// CountAdmirers returns how many users have liked userID, serving from the
// cache when warm and repopulating it on a miss.
func (s *InterestService) CountAdmirers(ctx context.Context, userID string) (int64, error) {
	if n, ok, err := s.Cache.GetLikeCount(ctx, userID); err == nil && ok {
		return n, nil
	}
	n, err := repo.CountAdmirers(ctx, s.DB, userID)
	if err != nil {
		return 0, err
	}
	_ = s.Cache.SetLikeCount(ctx, userID, n)
	return n, nil
}

// ListAdmirers returns the users who liked userID, newest first, each with
// their public profile. Admirers whose profile has since been deleted are
// skipped.
func (s *InterestService) ListAdmirers(ctx context.Context, userID string, token *string, limit int) ([]Admirer, *string, error) {
	interests, next, err := repo.ListAdmirers(ctx, s.DB, userID, token, limit)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, 0, len(interests))
	for _, in := range interests {
		ids = append(ids, in.SubjectID)
	}
	profiles, err := repo.GetProfiles(ctx, s.DB, ids)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Admirer, 0, len(interests))
	for _, in := range interests {
		p, ok := profiles[in.SubjectID]
		if !ok {
			continue
		}
		out = append(out, Admirer{Profile: p.Summary(), Interest: in})
	}
	return out, next, nil
}
