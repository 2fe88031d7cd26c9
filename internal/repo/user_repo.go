// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the UserProfile
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a profile is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
)

// CreateProfile inserts a new profile row. The ID is the external subject id,
// not generated here. Timestamps are set to UTC.
func CreateProfile(ctx context.Context, db *gorm.DB, p *domain.UserProfile) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.LastActiveAt.IsZero() {
		p.LastActiveAt = now
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetProfile fetches a profile by its ID, or ErrNotFound if missing.
func GetProfile(ctx context.Context, db *gorm.DB, id string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile persists all fields of an already-loaded profile.
func SaveProfile(ctx context.Context, db *gorm.DB, p *domain.UserProfile) error {
	p.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(p).Error
}

// UpdateAchievements replaces the achievements column of a profile. No-op
// RowsAffected is not treated as an error: writing the same set is fine.
func UpdateAchievements(ctx context.Context, db *gorm.DB, id string, achievements []string) error {
	return db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"achievements": datatypes.JSONSlice[string](achievements),
			"updated_at":   time.Now().UTC(),
		}).Error
}

// TouchLastActive records activity for a profile and maintains the daily
// login streak: a visit on the calendar day after the previous one extends
// the streak, a same-day visit keeps it, anything else resets it to 1.
func TouchLastActive(ctx context.Context, db *gorm.DB, id string, now time.Time) error {
	var p domain.UserProfile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return err
	}
	prev := p.LastActiveAt.UTC().Truncate(24 * time.Hour)
	cur := now.UTC().Truncate(24 * time.Hour)
	switch {
	case cur.Equal(prev):
		// same day, streak unchanged
	case cur.Equal(prev.Add(24 * time.Hour)):
		p.LoginStreak++
	default:
		p.LoginStreak = 1
	}
	p.LastActiveAt = now.UTC()
	return db.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_active_at": p.LastActiveAt,
			"login_streak":   p.LoginStreak,
		}).Error
}

// ListCandidates returns up to limit profiles other than excludeID, newest
// activity first. Used to build a feed snapshot; the caller shuffles.
func ListCandidates(ctx context.Context, db *gorm.DB, excludeID string, limit int) ([]domain.UserProfile, error) {
	var out []domain.UserProfile
	q := db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("last_active_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// GetProfiles fetches profiles by id. Missing ids are simply absent from the
// result map, never an error.
func GetProfiles(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.UserProfile, error) {
	out := make(map[string]domain.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.UserProfile
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// DeleteProfile removes a profile row. Deleting a missing profile is a no-op,
// keeping account-deletion retries idempotent.
func DeleteProfile(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.UserProfile{}).Error
}
