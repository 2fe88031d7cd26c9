package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
)

func seedProfile(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	p := &domain.UserProfile{
		ID:          id,
		DisplayName: "User " + id,
		Objectives:  []string{"strength"},
		Experience:  domain.ExperienceBeginner,
	}
	if err := repo.CreateProfile(context.Background(), db, p); err != nil {
		t.Fatalf("seed profile %s: %v", id, err)
	}
}

func TestInterestService_Record_SelfLike(t *testing.T) {
	db := newSvcDB(t)
	seedProfile(t, db, "u1")
	s := &InterestService{DB: db}

	if _, _, err := s.Record(context.Background(), "u1", "u1"); !errors.Is(err, ErrSelfInterest) {
		t.Fatalf("expected ErrSelfInterest, got %v", err)
	}
}

func TestInterestService_Record_UnknownTarget(t *testing.T) {
	db := newSvcDB(t)
	seedProfile(t, db, "u1")
	s := &InterestService{DB: db}

	if _, _, err := s.Record(context.Background(), "u1", "ghost"); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestInterestService_Record_IsIdempotent(t *testing.T) {
	db := newSvcDB(t)
	seedProfile(t, db, "u1")
	seedProfile(t, db, "u2")
	s := &InterestService{DB: db}
	ctx := context.Background()

	first, match, err := s.Record(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if match != nil {
		t.Fatalf("one-way like should not match")
	}

	second, match, err := s.Record(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("repeat Record: %v", err)
	}
	if match != nil {
		t.Fatalf("repeat like should not match")
	}
	if second.ID != first.ID {
		t.Fatalf("repeat returned a different interest: %s vs %s", second.ID, first.ID)
	}

	var n int64
	if err := db.Model(&domain.Interest{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("interest rows = %d (err %v), want 1", n, err)
	}
}

func TestInterestService_Record_MutualCreatesSingleMatch(t *testing.T) {
	db := newSvcDB(t)
	seedProfile(t, db, "u1")
	seedProfile(t, db, "u2")
	s := &InterestService{DB: db}
	ctx := context.Background()

	if _, match, err := s.Record(ctx, "u2", "u1"); err != nil || match != nil {
		t.Fatalf("first like: match=%v err=%v", match, err)
	}

	_, match, err := s.Record(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}
	if match == nil {
		t.Fatalf("mutual interest should produce a match")
	}
	if match.UserA != "u1" || match.UserB != "u2" {
		t.Fatalf("match pair not canonical: %s / %s", match.UserA, match.UserB)
	}

	// Liking again after the match hands back the same match.
	_, again, err := s.Record(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("repeat after match: %v", err)
	}
	if again == nil || again.ID != match.ID {
		t.Fatalf("repeat should return the existing match")
	}

	var n int64
	if err := db.Model(&domain.Match{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("match rows = %d (err %v), want 1", n, err)
	}
}

func TestInterestService_CountAdmirers_FallsBackToDB(t *testing.T) {
	db := newSvcDB(t)
	seedProfile(t, db, "u1")
	seedProfile(t, db, "u2")
	seedProfile(t, db, "u3")
	s := &InterestService{DB: db} // no cache configured
	ctx := context.Background()

	if _, _, err := s.Record(ctx, "u2", "u1"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, _, err := s.Record(ctx, "u3", "u1"); err != nil {
		t.Fatalf("like: %v", err)
	}

	n, err := s.CountAdmirers(ctx, "u1")
	if err != nil || n != 2 {
		t.Fatalf("count = %d (err %v), want 2", n, err)
	}
}

func TestInterestService_ListAdmirers_SkipsDeletedProfiles(t *testing.T) {
	db := newSvcDB(t)
	seedProfile(t, db, "u1")
	seedProfile(t, db, "u2")
	seedProfile(t, db, "u3")
	s := &InterestService{DB: db}
	ctx := context.Background()

	for _, liker := range []string{"u2", "u3"} {
		if _, _, err := s.Record(ctx, liker, "u1"); err != nil {
			t.Fatalf("like from %s: %v", liker, err)
		}
	}
	if err := repo.DeleteProfile(ctx, db, "u3"); err != nil {
		t.Fatalf("delete u3: %v", err)
	}

	admirers, next, err := s.ListAdmirers(ctx, "u1", nil, 10)
	if err != nil {
		t.Fatalf("ListAdmirers: %v", err)
	}
	if next != nil {
		t.Fatalf("single page should have no next token")
	}
	if len(admirers) != 1 || admirers[0].Profile.ID != "u2" {
		t.Fatalf("admirers = %+v, want only u2", admirers)
	}
}

func TestInterestService_ListAdmirers_Paginates(t *testing.T) {
	db := newSvcDB(t)
	seedProfile(t, db, "me")
	s := &InterestService{DB: db}
	ctx := context.Background()

	likers := []string{"a1", "a2", "a3", "a4", "a5"}
	for _, id := range likers {
		seedProfile(t, db, id)
		if _, _, err := s.Record(ctx, id, "me"); err != nil {
			t.Fatalf("like from %s: %v", id, err)
		}
	}

	seen := map[string]bool{}
	var token *string
	pages := 0
	for {
		page, next, err := s.ListAdmirers(ctx, "me", token, 2)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, a := range page {
			if seen[a.Profile.ID] {
				t.Fatalf("duplicate admirer %s across pages", a.Profile.ID)
			}
			seen[a.Profile.ID] = true
		}
		pages++
		if next == nil {
			break
		}
		token = next
		if pages > 5 {
			t.Fatalf("pagination did not terminate")
		}
	}
	if len(seen) != len(likers) {
		t.Fatalf("saw %d admirers, want %d", len(seen), len(likers))
	}
}
