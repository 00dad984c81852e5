package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/tablestore"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Seeds the record store with demo players, pairs and a reported match so a
// fresh base has something to render in the Mini App.
func main() {
	log.Info("Starting store seeder...")
	cfg := config.Load()

	client := tablestore.NewClient(cfg.Store.BaseURL, cfg.Store.APIKey, cfg.Store.BaseID)
	store := league.New(client, cfg.Store.Tables)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// A unique run tag keeps repeated seed runs from colliding on usernames.
	runTag := uuid.NewString()[:8]

	names := []string{"Seeder Player A", "Seeder Player B", "Seeder Player C", "Seeder Player D"}
	players := make([]*league.Player, 0, len(names))
	for i, name := range names {
		player, err := store.CreatePlayer(ctx, &league.Player{
			TelegramID: rand.Int63n(1_000_000_000),
			Name:       name,
			Username:   fmt.Sprintf("seed_%s_%d", runTag, i+1),
			Rating:     cfg.Rating.Seed,
		})
		if err != nil {
			log.Fatalf("Failed to create player %q: %s", name, err)
		}
		log.Info("Created player", "id", player.ID, "name", player.Name)
		players = append(players, player)
	}

	pair1, err := store.CreatePair(ctx, &league.Pair{
		Player1: players[0].ID,
		Player2: players[1].ID,
		Rating:  cfg.Rating.Seed,
	})
	if err != nil {
		log.Fatalf("Failed to create pair: %s", err)
	}
	pair2, err := store.CreatePair(ctx, &league.Pair{
		Player1: players[2].ID,
		Player2: players[3].ID,
		Rating:  cfg.Rating.Seed,
	})
	if err != nil {
		log.Fatalf("Failed to create pair: %s", err)
	}
	log.Info("Created pairs", "pair1", pair1.ID, "pair2", pair2.ID)

	match, err := store.CreateMatch(ctx, &league.Match{
		Date:        time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		Time:        "19:00",
		Status:      league.StatusPendingConfirmation,
		Pair1:       pair1.ID,
		Pair2:       pair2.ID,
		InitiatedBy: players[0].ID,
		Score:       "6-4 3-6 7-5",
	})
	if err != nil {
		log.Fatalf("Failed to create match: %s", err)
	}

	sets := []league.SetScore{
		{MatchID: match.ID, SetNo: 1, P1: 6, P2: 4, WinnerPair: pair1.ID},
		{MatchID: match.ID, SetNo: 2, P1: 3, P2: 6, WinnerPair: pair2.ID},
		{MatchID: match.ID, SetNo: 3, P1: 7, P2: 5, WinnerPair: pair1.ID},
	}
	if _, err := store.CreateSetScores(ctx, sets); err != nil {
		log.Fatalf("Failed to create set scores: %s", err)
	}

	log.Info("Seeding complete", "matchID", match.ID, "players", len(players))
}
