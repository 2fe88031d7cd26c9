// Package services – ProfileService
//
// This file implements ProfileService, which owns profile creation, updates,
// lookups, and the validation rules for profile fields: display names are
// 2-50 letters/spaces and stored title-cased, locations are 3-100 characters,
// objectives are capped at three, and experience/time-slot values must come
// from their fixed vocabularies.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
)

const (
	minNameLen     = 2
	maxNameLen     = 50
	minLocationLen = 3
	maxLocationLen = 100
)

var nameRe = regexp.MustCompile(`^[\p{L} ]+$`)

// ProfileInput carries the writable profile fields.
type ProfileInput struct {
	DisplayName    string   `json:"display_name"`
	PhotoURL       string   `json:"photo_url"`
	Location       string   `json:"location"`
	Objectives     []string `json:"objectives"`
	Experience     string   `json:"experience"`
	PreferredTimes []string `json:"preferred_times"`
}

// ProfileService coordinates profile persistence and validation.
type ProfileService struct {
	DB *gorm.DB

	titleCaser *cases.Caser
}

func (s *ProfileService) caser() cases.Caser {
	if s.titleCaser == nil {
		c := cases.Title(language.English)
		s.titleCaser = &c
	}
	return *s.titleCaser
}

// Create registers a profile for the given subject id.
func (s *ProfileService) Create(ctx context.Context, userID string, in ProfileInput) (*domain.UserProfile, error) {
	p, err := s.build(userID, in)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateProfile(ctx, s.DB, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return p, nil
}

// Update replaces the writable fields of an existing profile.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (*domain.UserProfile, error) {
	existing, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	fresh, err := s.build(userID, in)
	if err != nil {
		return nil, err
	}
	existing.DisplayName = fresh.DisplayName
	existing.PhotoURL = fresh.PhotoURL
	existing.Location = fresh.Location
	existing.Objectives = fresh.Objectives
	existing.Experience = fresh.Experience
	existing.PreferredTimes = fresh.PreferredTimes
	if err := repo.SaveProfile(ctx, s.DB, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get returns a profile by id.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// Touch records activity for the user, maintaining the daily login streak.
// Missing profiles are ignored: activity tracking never fails a request.
func (s *ProfileService) Touch(ctx context.Context, userID string) {
	_ = repo.TouchLastActive(ctx, s.DB, userID, time.Now().UTC())
}

// build validates the input and assembles a UserProfile value.
func (s *ProfileService) build(userID string, in ProfileInput) (*domain.UserProfile, error) {
	name := strings.TrimSpace(in.DisplayName)
	if n := len([]rune(name)); n < minNameLen || n > maxNameLen {
		return nil, fmt.Errorf("%w: display_name must be %d-%d characters", ErrInvalidProfile, minNameLen, maxNameLen)
	}
	if !nameRe.MatchString(name) {
		return nil, fmt.Errorf("%w: display_name may contain only letters and spaces", ErrInvalidProfile)
	}
	name = s.caser().String(strings.ToLower(name))

	loc := strings.TrimSpace(in.Location)
	if loc != "" {
		if n := len([]rune(loc)); n < minLocationLen || n > maxLocationLen {
			return nil, fmt.Errorf("%w: location must be %d-%d characters", ErrInvalidProfile, minLocationLen, maxLocationLen)
		}
	}

	objectives := dedupeTrimmed(in.Objectives)
	if len(objectives) == 0 {
		return nil, fmt.Errorf("%w: at least one objective is required", ErrInvalidProfile)
	}
	if len(objectives) > domain.MaxObjectives {
		return nil, fmt.Errorf("%w: at most %d objectives allowed", ErrInvalidProfile, domain.MaxObjectives)
	}

	switch in.Experience {
	case domain.ExperienceBeginner, domain.ExperienceIntermediate, domain.ExperienceAdvanced:
	case "":
		return nil, fmt.Errorf("%w: experience is required", ErrInvalidProfile)
	default:
		return nil, fmt.Errorf("%w: experience must be beginner, intermediate or advanced", ErrInvalidProfile)
	}

	times := dedupeTrimmed(in.PreferredTimes)
	for _, t := range times {
		switch t {
		case domain.TimeSlotMorning, domain.TimeSlotAfternoon, domain.TimeSlotEvening:
		default:
			return nil, fmt.Errorf("%w: preferred_times must be morning, afternoon or evening", ErrInvalidProfile)
		}
	}

	return &domain.UserProfile{
		ID:             userID,
		DisplayName:    name,
		PhotoURL:       strings.TrimSpace(in.PhotoURL),
		Location:       loc,
		Objectives:     objectives,
		Experience:     in.Experience,
		PreferredTimes: times,
	}, nil
}

// dedupeTrimmed trims entries, drops blanks, and removes duplicates while
// preserving order.
func dedupeTrimmed(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		t := strings.TrimSpace(v)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
