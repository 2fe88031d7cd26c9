package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func validInput() ProfileInput {
	return ProfileInput{
		DisplayName:    "ana maria",
		PhotoURL:       "https://img.example/a.jpg",
		Location:       "Lisbon",
		Objectives:     []string{"strength", "mobility"},
		Experience:     domain.ExperienceIntermediate,
		PreferredTimes: []string{domain.TimeSlotMorning},
	}
}

// ---------- Create / Update ----------

func TestProfileService_Create_TitleCasesName(t *testing.T) {
	s := &ProfileService{DB: newSvcDB(t)}
	p, err := s.Create(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.DisplayName != "Ana Maria" {
		t.Fatalf("display name = %q, want title-cased", p.DisplayName)
	}
	if p.ID != "u1" {
		t.Fatalf("id = %q", p.ID)
	}
}

func TestProfileService_Create_Duplicate(t *testing.T) {
	s := &ProfileService{DB: newSvcDB(t)}
	ctx := context.Background()
	if _, err := s.Create(ctx, "u1", validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.Create(ctx, "u1", validInput()); !errors.Is(err, ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestProfileService_Create_ValidationFailures(t *testing.T) {
	s := &ProfileService{DB: newSvcDB(t)}
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ProfileInput)
	}{
		{"name too short", func(in *ProfileInput) { in.DisplayName = "a" }},
		{"name too long", func(in *ProfileInput) { in.DisplayName = strings.Repeat("a", 51) }},
		{"name with digits", func(in *ProfileInput) { in.DisplayName = "user123" }},
		{"no objectives", func(in *ProfileInput) { in.Objectives = nil }},
		{"too many objectives", func(in *ProfileInput) { in.Objectives = []string{"a", "b", "c", "d"} }},
		{"bad experience", func(in *ProfileInput) { in.Experience = "pro" }},
		{"missing experience", func(in *ProfileInput) { in.Experience = "" }},
		{"bad time slot", func(in *ProfileInput) { in.PreferredTimes = []string{"midnight"} }},
		{"location too short", func(in *ProfileInput) { in.Location = "ab" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := s.Create(ctx, "u-"+tc.name, in); !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestProfileService_Create_DedupesObjectives(t *testing.T) {
	s := &ProfileService{DB: newSvcDB(t)}
	in := validInput()
	in.Objectives = []string{" strength ", "strength", "cardio"}
	p, err := s.Create(context.Background(), "u1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.Objectives) != 2 || p.Objectives[0] != "strength" || p.Objectives[1] != "cardio" {
		t.Fatalf("objectives = %v", p.Objectives)
	}
}

func TestProfileService_Update_MissingProfile(t *testing.T) {
	s := &ProfileService{DB: newSvcDB(t)}
	if _, err := s.Update(context.Background(), "ghost", validInput()); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileService_Update_ReplacesFieldsKeepsAchievements(t *testing.T) {
	db := newSvcDB(t)
	s := &ProfileService{DB: db}
	ctx := context.Background()

	p, err := s.Create(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.Achievements = []string{domain.AchGoalSetter}
	if err := repo.SaveProfile(ctx, db, p); err != nil {
		t.Fatalf("seed achievements: %v", err)
	}

	in := validInput()
	in.Location = "Porto"
	in.Experience = domain.ExperienceAdvanced
	got, err := s.Update(ctx, "u1", in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Location != "Porto" || got.Experience != domain.ExperienceAdvanced {
		t.Fatalf("update not applied: %+v", got)
	}
	if len(got.Achievements) != 1 || got.Achievements[0] != domain.AchGoalSetter {
		t.Fatalf("achievements should survive updates, got %v", got.Achievements)
	}
}

func TestProfileService_Get_NotFound(t *testing.T) {
	s := &ProfileService{DB: newSvcDB(t)}
	if _, err := s.Get(context.Background(), "nobody"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
