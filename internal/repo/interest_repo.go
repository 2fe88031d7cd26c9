// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Interest
// model: one-directional likes between users.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/utils/pagination"
)

// CreateInterest records subject -> target interest. The insert is idempotent:
// the (subject_id, target_id) unique index plus OnConflict-DoNothing means a
// repeat returns the original row and created=false, with no error.
func CreateInterest(ctx context.Context, db *gorm.DB, subjectID, targetID string) (*domain.Interest, bool, error) {
	in := &domain.Interest{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		TargetID:  targetID,
		CreatedAt: time.Now().UTC(),
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(in)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		// Row already existed; hand back the original.
		var existing domain.Interest
		err := db.WithContext(ctx).
			Where("subject_id = ? AND target_id = ?", subjectID, targetID).
			First(&existing).Error
		if err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	return in, true, nil
}

// HasInterest reports whether subject has recorded interest in target.
func HasInterest(ctx context.Context, db *gorm.DB, subjectID, targetID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Interest{}).
		Where("subject_id = ? AND target_id = ?", subjectID, targetID).
		Count(&n).Error
	return n > 0, err
}

// ListAdmirers returns interests targeting userID, newest first, with
// cursor-based pagination. The second return value is the next-page token,
// nil when this is the last page.
func ListAdmirers(ctx context.Context, db *gorm.DB, userID string, token *string, limit int) ([]domain.Interest, *string, error) {
	var tok string
	if token != nil {
		tok = *token
	}
	cursor, err := pagination.Decode(tok)
	if err != nil {
		return nil, nil, err
	}

	q := db.WithContext(ctx).
		Where("target_id = ?", userID).
		Order("created_at DESC, subject_id DESC").
		Limit(limit + 1)
	if cursor.LastID != "" {
		// Full nanosecond precision: the boundary row's stored timestamp must
		// round-trip exactly or the equality tiebreak misses rows that share
		// its millisecond.
		ts := time.Unix(0, cursor.CreatedUnix).UTC()
		q = q.Where(
			"(created_at < ? OR (created_at = ? AND subject_id < ?))",
			ts, ts, cursor.LastID,
		)
	}

	var out []domain.Interest
	if err := q.Find(&out).Error; err != nil {
		return nil, nil, err
	}

	var next *string
	if len(out) > limit {
		last := out[limit-1]
		t, _ := pagination.Encode(pagination.Cursor{
			LastID:      last.SubjectID,
			CreatedUnix: last.CreatedAt.UnixNano(),
		})
		next = &t
		out = out[:limit]
	}
	return out, next, nil
}

// CountAdmirers returns how many users have recorded interest in userID.
func CountAdmirers(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Interest{}).
		Where("target_id = ?", userID).
		Count(&n).Error
	return n, err
}

// DeleteInterestsFor removes every interest row the user appears in, on either
// side. Idempotent: deleting nothing is fine.
func DeleteInterestsFor(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("subject_id = ? OR target_id = ?", userID, userID).
		Delete(&domain.Interest{}).Error
}
