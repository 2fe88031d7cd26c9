package repo

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
)

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestCreateInterest_IdempotentInsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, created, err := CreateInterest(ctx, db, "u1", "u2")
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	second, created, err := CreateInterest(ctx, db, "u1", "u2")
	if err != nil {
		t.Fatalf("repeat insert: %v", err)
	}
	if created {
		t.Fatalf("repeat insert should not create")
	}
	if second.ID != first.ID {
		t.Fatalf("repeat returned different row: %s vs %s", second.ID, first.ID)
	}
	if n := countRows(t, db, &domain.Interest{}); n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
}

func TestCreateInterest_DirectionsAreDistinct(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, _, err := CreateInterest(ctx, db, "u1", "u2"); err != nil {
		t.Fatalf("u1->u2: %v", err)
	}
	if _, _, err := CreateInterest(ctx, db, "u2", "u1"); err != nil {
		t.Fatalf("u2->u1: %v", err)
	}
	if n := countRows(t, db, &domain.Interest{}); n != 2 {
		t.Fatalf("rows = %d, want 2", n)
	}
}

func TestHasInterest(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, _, err := CreateInterest(ctx, db, "u1", "u2"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if ok, err := HasInterest(ctx, db, "u1", "u2"); err != nil || !ok {
		t.Fatalf("forward direction: ok=%v err=%v", ok, err)
	}
	if ok, err := HasInterest(ctx, db, "u2", "u1"); err != nil || ok {
		t.Fatalf("reverse direction should be absent: ok=%v err=%v", ok, err)
	}
}

func TestListAdmirers_CursorWalk(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	likers := []string{"a", "b", "c", "d", "e"}
	for _, id := range likers {
		if _, _, err := CreateInterest(ctx, db, id, "me"); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	seen := map[string]bool{}
	var token *string
	for pages := 0; ; pages++ {
		if pages > len(likers) {
			t.Fatalf("cursor walk did not terminate")
		}
		page, next, err := ListAdmirers(ctx, db, "me", token, 2)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		if len(page) > 2 {
			t.Fatalf("page overflow: %d", len(page))
		}
		for _, in := range page {
			if seen[in.SubjectID] {
				t.Fatalf("duplicate %s across pages", in.SubjectID)
			}
			seen[in.SubjectID] = true
		}
		if next == nil {
			break
		}
		token = next
	}
	if len(seen) != len(likers) {
		t.Fatalf("saw %d likers, want %d", len(seen), len(likers))
	}
}

func TestListAdmirers_SameMillisecondBoundary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Five rows inside one millisecond, microseconds apart. The page boundary
	// lands between them, so the cursor must carry the exact stored timestamp
	// or the follow-up page drops the boundary's neighbors.
	base := time.Date(2026, 8, 1, 10, 0, 0, 500_000_000, time.UTC)
	likers := []string{"a", "b", "c", "d", "e"}
	for i, id := range likers {
		in := domain.Interest{
			ID:        id + "-interest",
			SubjectID: id,
			TargetID:  "me",
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		}
		if err := db.Create(&in).Error; err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	seen := map[string]bool{}
	var token *string
	for pages := 0; ; pages++ {
		if pages > len(likers) {
			t.Fatalf("cursor walk did not terminate")
		}
		page, next, err := ListAdmirers(ctx, db, "me", token, 2)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, in := range page {
			if seen[in.SubjectID] {
				t.Fatalf("duplicate %s across pages", in.SubjectID)
			}
			seen[in.SubjectID] = true
		}
		if next == nil {
			break
		}
		token = next
	}
	if len(seen) != len(likers) {
		t.Fatalf("saw %d likers, want %d", len(seen), len(likers))
	}
}

func TestListAdmirers_BadToken(t *testing.T) {
	db := newTestDB(t)
	bad := "%%%"
	if _, _, err := ListAdmirers(context.Background(), db, "me", &bad, 10); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestCountAdmirers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b"} {
		if _, _, err := CreateInterest(ctx, db, id, "me"); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if _, _, err := CreateInterest(ctx, db, "me", "a"); err != nil {
		t.Fatalf("outgoing like: %v", err)
	}

	n, err := CountAdmirers(ctx, db, "me")
	if err != nil || n != 2 {
		t.Fatalf("count = %d (err %v), want 2", n, err)
	}
}

func TestDeleteInterestsFor_BothSides(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	pairs := [][2]string{{"u1", "u2"}, {"u3", "u1"}, {"u2", "u3"}}
	for _, p := range pairs {
		if _, _, err := CreateInterest(ctx, db, p[0], p[1]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	if err := DeleteInterestsFor(ctx, db, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := countRows(t, db, &domain.Interest{}); n != 1 {
		t.Fatalf("rows = %d, want only u2->u3 left", n)
	}
	// Retry is a no-op.
	if err := DeleteInterestsFor(ctx, db, "u1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}
