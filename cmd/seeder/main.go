package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/database"
	"github.com/mauv0809/padel-ladder/internal/metrics"
	"github.com/mauv0809/padel-ladder/internal/notifier"
	"github.com/mauv0809/padel-ladder/internal/processor"
	"github.com/mauv0809/padel-ladder/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           os.Getenv("DB_NAME"),
		"TURSO_PRIMARY_URL": os.Getenv("TURSO_PRIMARY_URL"),
		"TURSO_AUTH_TOKEN":  os.Getenv("TURSO_AUTH_TOKEN"),
		"SEED_MATCHES":      os.Getenv("SEED_MATCHES"),
	}
	if config["DB_NAME"] == "" && config["TURSO_PRIMARY_URL"] == "" {
		log.Fatal("Error: set DB_NAME or TURSO_PRIMARY_URL")
	}
	return config
}

var seedNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elena", "Fabio", "Gala", "Hugo", "Irene", "Javi", "Kira", "Luis"}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	numMatches := 200
	if raw := cfg["SEED_MATCHES"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Fatalf("Invalid SEED_MATCHES %q", raw)
		}
		numMatches = n
	}

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := club.New(db)
	players := make([]club.Player, 0, len(seedNames))
	for i, name := range seedNames {
		players = append(players, club.Player{ID: fmt.Sprintf("seed-player-%02d", i+1), Name: name})
	}
	if err := store.UpsertPlayers(players); err != nil {
		log.Fatalf("Failed to insert seed players: %s", err)
	}
	log.Info("Ensured seed players exist.", "count", len(players))

	proc := processor.New(store, nil, notifier.NewLogNotifier(), metrics.NewService(prometheus.NewRegistry()), pubsub.NewMock(), processor.Config{})

	// Each player gets a hidden strength so the ladder sorts itself out over time.
	strength := make(map[string]float64, len(players))
	for _, p := range players {
		strength[p.ID] = rand.Float64()
	}

	log.SetLevel(log.WarnLevel)
	startTime := time.Now()
	ctx := context.Background()
	for i := 0; i < numMatches; i++ {
		perm := rand.Perm(len(players))
		picked := []club.Player{players[perm[0]], players[perm[1]], players[perm[2]], players[perm[3]]}
		s1 := strength[picked[0].ID] + strength[picked[1].ID]
		s2 := strength[picked[2].ID] + strength[picked[3].ID]
		team1Won := rand.Float64() < s1/(s1+s2)

		in := processor.MatchResult{
			MatchID:  uuid.NewString(),
			Source:   "seed",
			Team1:    []processor.MatchPlayer{{ID: picked[0].ID}, {ID: picked[1].ID}},
			Team2:    []processor.MatchPlayer{{ID: picked[2].ID}, {ID: picked[3].ID}},
			Score:    randomScore(team1Won),
			Team1Won: team1Won,
			PlayedAt: time.Now().Add(-time.Duration(numMatches-i) * time.Hour).Unix(),
		}
		if _, err := proc.RateMatch(ctx, in, false); err != nil {
			log.Fatalf("Failed to rate seed match %d: %s", i, err)
		}
	}
	log.SetLevel(log.InfoLevel)
	log.Info("Successfully rated all seed matches.", "count", numMatches, "duration", time.Since(startTime))
}

// randomScore returns a two or three set score from team 1's side.
func randomScore(team1Won bool) string {
	set := func(win bool) string {
		loser := rand.IntN(5)
		if win {
			return fmt.Sprintf("6-%d", loser)
		}
		return fmt.Sprintf("%d-6", loser)
	}
	if rand.IntN(3) == 0 {
		return set(!team1Won) + ", " + set(team1Won) + ", " + set(team1Won)
	}
	return set(team1Won) + ", " + set(team1Won)
}
