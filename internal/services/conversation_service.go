// Package services – ConversationService
//
// This file implements ConversationService, which owns message sends, history
// reads, the conversation list, and live subscriptions. Sends verify the
// caller participates in the match, persist inside a transaction (so the
// monotonic-timestamp clamp reads a consistent tail), and only publish to the
// live hub after the commit; subscribers therefore never see a message that
// later rolled back.
//
// Observability: Send is OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
	"github.com/jooseepaardoo/gymconnect-backend/internal/stream"
)

// Conversation is one row of the conversation list: a match plus the public
// profile of the counterpart.
type Conversation struct {
	Match       domain.Match   `json:"match"`
	Counterpart domain.Summary `json:"counterpart"`
}

// ConversationService coordinates message persistence and live delivery.
type ConversationService struct {
	DB  *gorm.DB
	Hub *stream.Hub

	// MaxBodyRunes caps message length when > 0.
	MaxBodyRunes int
}

// Send validates the body, verifies the caller participates in matchID, and
// persists the message. The live hub is notified after the transaction
// commits.
func (s *ConversationService) Send(ctx context.Context, userID, matchID, body string) (*domain.Message, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("match.id", matchID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		return nil, ErrMessageTooLong
	}

	var msg *domain.Message
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match, err := s.authorize(ctx, tx, userID, matchID)
		if err != nil {
			return err
		}
		msg, err = repo.AppendMessage(ctx, tx, match.ID, userID, body)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.Hub != nil {
		s.Hub.Publish(matchID, *msg)
	}
	return msg, nil
}

// History returns a page of the match's messages in conversation order,
// along with the total count.
func (s *ConversationService) History(ctx context.Context, userID, matchID string, offset, limit int) ([]domain.Message, int64, error) {
	if _, err := s.authorize(ctx, s.DB, userID, matchID); err != nil {
		return nil, 0, err
	}
	msgs, err := repo.ListMessagesPage(ctx, s.DB, matchID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.CountMessages(ctx, s.DB, matchID)
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// Subscribe attaches a live subscription to the match: the full stored
// backlog is delivered first, then every subsequent message, in one total
// order without gaps or duplicates. The caller must Close the subscription;
// typically it does so when the request context ends.
func (s *ConversationService) Subscribe(ctx context.Context, userID, matchID string) (*stream.Subscription, error) {
	if _, err := s.authorize(ctx, s.DB, userID, matchID); err != nil {
		return nil, err
	}

	// Register before reading the backlog so nothing published in between is
	// lost; the subscription dedupes the overlap by message id.
	sub := s.Hub.Subscribe(matchID)
	backlog, err := repo.ListMessages(ctx, s.DB, matchID, 0)
	if err != nil {
		sub.Close()
		return nil, err
	}
	sub.Replay(backlog)
	return sub, nil
}

// ListConversations returns the caller's matches with counterpart profiles,
// most recent first. Matches whose counterpart profile no longer exists are
// skipped rather than surfaced half-empty.
func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	matches, err := repo.ListMatchesFor(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Counterpart(userID))
	}
	profiles, err := repo.GetProfiles(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	out := make([]Conversation, 0, len(matches))
	for _, m := range matches {
		p, ok := profiles[m.Counterpart(userID)]
		if !ok {
			continue
		}
		out = append(out, Conversation{Match: m, Counterpart: p.Summary()})
	}
	return out, nil
}

// authorize loads the match and verifies userID participates in it.
func (s *ConversationService) authorize(ctx context.Context, db *gorm.DB, userID, matchID string) (*domain.Match, error) {
	match, err := repo.GetMatch(ctx, db, matchID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if !match.Involves(userID) {
		return nil, ErrNotParticipant
	}
	return match, nil
}
