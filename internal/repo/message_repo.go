// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
)

// AppendMessage inserts a message with a server-assigned timestamp clamped to
// be non-decreasing within the match: if the wall clock reads earlier than the
// newest stored message (clock skew, same-millisecond bursts), the new row
// inherits that timestamp so (created_at, id) stays a total order.
//
// Call inside a transaction together with the match-existence check so the
// clamp reads a consistent tail.
func AppendMessage(ctx context.Context, db *gorm.DB, matchID, senderID, body string) (*domain.Message, error) {
	now := time.Now().UTC()
	var last struct{ CreatedAt time.Time }
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("match_id = ?", matchID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return nil, err
	}
	if now.Before(last.CreatedAt) {
		now = last.CreatedAt
	}

	m := &domain.Message{
		ID:        uuid.NewString(),
		MatchID:   matchID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: now,
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns messages of a match ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListMessages(ctx context.Context, db *gorm.DB, matchID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListMessagesPage returns a paginated slice ordered (CreatedAt ASC, ID ASC).
func ListMessagesPage(ctx context.Context, db *gorm.DB, matchID string, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, matchID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM messages WHERE match_id = ?", matchID).
		Scan(&total).Error
	return total, err
}

// CountMessagesBySender returns how many messages the user has sent across
// all matches. Feeds the active-chatter achievement counter.
func CountMessagesBySender(ctx context.Context, db *gorm.DB, senderID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("sender_id = ?", senderID).
		Count(&total).Error
	return total, err
}

// GetMessage fetches a message by ID.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMessagesInMatches removes every message in the given matches.
// Idempotent; an empty id list is a no-op.
func DeleteMessagesInMatches(ctx context.Context, db *gorm.DB, matchIDs []string) error {
	if len(matchIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("match_id IN ?", matchIDs).
		Delete(&domain.Message{}).Error
}
