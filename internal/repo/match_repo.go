// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Match model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
)

// CreateMatch inserts the match for the unordered pair (x, y), stored in
// canonical order. If the pair is already matched (including a concurrent
// writer winning the race on the pair_key unique index), the existing match is
// returned and created=false. The caller never sees the constraint violation.
func CreateMatch(ctx context.Context, db *gorm.DB, x, y string) (*domain.Match, bool, error) {
	a, b := domain.CanonicalPair(x, y)
	m := &domain.Match{
		ID:        uuid.NewString(),
		UserA:     a,
		UserB:     b,
		PairKey:   domain.PairKeyFor(x, y),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			existing, gerr := GetMatchByPair(ctx, db, x, y)
			if gerr != nil {
				return nil, false, gerr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return m, true, nil
}

// GetMatch fetches a match by ID, or ErrNotFound.
func GetMatch(ctx context.Context, db *gorm.DB, id string) (*domain.Match, error) {
	var m domain.Match
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMatchByPair fetches the match for an unordered pair, or ErrNotFound.
func GetMatchByPair(ctx context.Context, db *gorm.DB, x, y string) (*domain.Match, error) {
	var m domain.Match
	err := db.WithContext(ctx).
		Where("pair_key = ?", domain.PairKeyFor(x, y)).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMatchesFor returns every match the user participates in, on either side,
// most recent first.
func ListMatchesFor(ctx context.Context, db *gorm.DB, userID string) ([]domain.Match, error) {
	var out []domain.Match
	err := db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	return out, err
}

// CountMatchesFor returns the number of matches the user participates in.
func CountMatchesFor(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Match{}).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Count(&n).Error
	return n, err
}

// ListMatchIDsFor returns just the ids of the user's matches, for cascade
// deletion.
func ListMatchIDsFor(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.Match{}).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteMatchesFor removes every match the user participates in. Idempotent.
func DeleteMatchesFor(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Delete(&domain.Match{}).Error
}
