package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "m1", "key-1", "msg-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.MessageID != "msg-1" || rec.Status != 201 {
		t.Fatalf("record = %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "m1", "key-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("got %s, want %s", got.ID, rec.ID)
	}
}

func TestIdempotency_DuplicateKey(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "m1", "key-1", "msg-1", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "m1", "key-1", "msg-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same key in a different match is a different tuple.
	if _, err := CreateIdempotency(ctx, db, "u1", "m2", "key-1", "msg-3", 201, time.Hour); err != nil {
		t.Fatalf("same key, other match: %v", err)
	}
}

func TestIdempotency_ExpiredIsInvisible(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "m1", "key-1", "msg-1", 201, time.Millisecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "m1", "key-1", time.Now().UTC().Add(time.Second)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}
}

func TestIdempotency_BlankMatchIsNotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := GetIdempotency(context.Background(), db, "u1", "  ", "k", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotencyFor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "m1", "k1", "x", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u2", "m1", "k1", "y", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := DeleteIdempotencyFor(ctx, db, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "m1", "k1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("u1 record should be gone, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u2", "m1", "k1", time.Now().UTC()); err != nil {
		t.Fatalf("u2 record should survive: %v", err)
	}
}
