// Command seed fills the database with demo accounts for local development:
// a handful of profiles, some one-directional likes, two mutual pairs with a
// short conversation each.
package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/jooseepaardoo/gymconnect-backend/internal/config"
	"github.com/jooseepaardoo/gymconnect-backend/internal/domain"
	"github.com/jooseepaardoo/gymconnect-backend/internal/repo"
	"github.com/jooseepaardoo/gymconnect-backend/internal/services"
	"github.com/jooseepaardoo/gymconnect-backend/internal/stream"
)

type demoUser struct {
	id    string
	input services.ProfileInput
}

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	ctx := context.Background()
	profiles := &services.ProfileService{DB: db}
	interests := &services.InterestService{DB: db}
	hub := stream.NewHub()
	defer hub.Shutdown()
	conversations := &services.ConversationService{DB: db, Hub: hub, MaxBodyRunes: 2000}

	users := []demoUser{
		{"demo-ana", services.ProfileInput{
			DisplayName: "ana maria", Location: "Lisbon",
			Objectives: []string{"strength", "powerlifting"},
			Experience: domain.ExperienceAdvanced,
			PreferredTimes: []string{domain.TimeSlotMorning},
		}},
		{"demo-bruno", services.ProfileInput{
			DisplayName: "bruno", Location: "Lisbon",
			Objectives: []string{"strength"},
			Experience: domain.ExperienceIntermediate,
			PreferredTimes: []string{domain.TimeSlotMorning, domain.TimeSlotEvening},
		}},
		{"demo-carla", services.ProfileInput{
			DisplayName: "carla reis", Location: "Porto",
			Objectives: []string{"cardio", "mobility"},
			Experience: domain.ExperienceBeginner,
			PreferredTimes: []string{domain.TimeSlotEvening},
		}},
		{"demo-diego", services.ProfileInput{
			DisplayName: "diego", Location: "Porto",
			Objectives: []string{"cardio"},
			Experience: domain.ExperienceBeginner,
		}},
		{"demo-eva", services.ProfileInput{
			DisplayName: "eva lind",
			Objectives: []string{"crossfit"},
			Experience: domain.ExperienceAdvanced,
		}},
	}

	for _, u := range users {
		if _, err := profiles.Create(ctx, u.id, u.input); err != nil {
			log.Warn().Err(err).Str("user", u.id).Msg("profile exists, skipping")
		}
	}

	// Mutual pairs: ana↔bruno and carla↔diego. Eva likes ana one-way.
	pairs := [][2]string{
		{"demo-ana", "demo-bruno"},
		{"demo-bruno", "demo-ana"},
		{"demo-carla", "demo-diego"},
		{"demo-diego", "demo-carla"},
		{"demo-eva", "demo-ana"},
	}
	for _, p := range pairs {
		if _, _, err := interests.Record(ctx, p[0], p[1]); err != nil {
			log.Fatal().Err(err).Strs("pair", p[:]).Msg("record interest failed")
		}
	}

	say := func(from, to, body string) {
		m, err := repo.GetMatchByPair(ctx, db, from, to)
		if err != nil {
			log.Fatal().Err(err).Msg("match missing")
		}
		if _, err := conversations.Send(ctx, from, m.ID, body); err != nil {
			log.Fatal().Err(err).Msg("send failed")
		}
	}
	say("demo-ana", "demo-bruno", "Morning session tomorrow? I need a spotter for squats.")
	say("demo-bruno", "demo-ana", "7am works. Meet at the rack.")
	say("demo-carla", "demo-diego", "Up for an easy 5k on Thursday?")

	log.Info().Int("users", len(users)).Msg("seed complete")
}
