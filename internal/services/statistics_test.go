package services

import (
	"testing"

	"party-game-backend/internal/models"
)

func TestAggregateTallies(t *testing.T) {
	env := newTestEnv(t)

	team := models.Team{Name: "Red"}
	if err := env.db.Create(&team).Error; err != nil {
		t.Fatalf("seed team: %v", err)
	}
	alice := models.Player{Name: "alice", TeamID: &team.ID, DeviceToken: "t-alice"}
	bob := models.Player{Name: "bob", DeviceToken: "t-bob"}
	env.db.Create(&alice)
	env.db.Create(&bob)

	session := env.newQuizSession(t, 2)
	if _, err := env.game.Start(session.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	round, _ := env.game.CurrentRound(session.ID)
	if _, err := env.scoring.SubmitAnswer(round.ID, alice.ID, "Paris", nil); err != nil {
		t.Fatalf("alice round 1: %v", err)
	}
	if _, err := env.scoring.SubmitAnswer(round.ID, bob.ID, "Rome", nil); err != nil {
		t.Fatalf("bob round 1: %v", err)
	}

	if _, err := env.game.Advance(session.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	round, _ = env.game.CurrentRound(session.ID)
	if _, err := env.scoring.SubmitAnswer(round.ID, alice.ID, "paris", nil); err != nil {
		t.Fatalf("alice round 2: %v", err)
	}

	stats, err := env.stats.Aggregate(session.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if stats.TotalRounds != 2 {
		t.Errorf("total rounds = %d, want 2", stats.TotalRounds)
	}
	if stats.TotalAnswers != 3 {
		t.Errorf("total answers = %d, want 3", stats.TotalAnswers)
	}
	if stats.CorrectAnswers != 2 {
		t.Errorf("correct answers = %d, want 2", stats.CorrectAnswers)
	}

	if len(stats.Players) != 2 {
		t.Fatalf("player standings = %d, want 2", len(stats.Players))
	}
	first := stats.Players[0]
	if first.Name != "alice" || first.Position != 1 {
		t.Errorf("leader = %+v, want alice at position 1", first)
	}
	if first.CorrectAnswers != 2 || first.TotalAnswers != 2 {
		t.Errorf("alice tallies = %d/%d, want 2/2", first.CorrectAnswers, first.TotalAnswers)
	}
	if first.TeamName != "Red" {
		t.Errorf("alice team = %q, want Red", first.TeamName)
	}
	if first.Points != 0 {
		t.Errorf("points = %d, want 0 (nothing awards points yet)", first.Points)
	}

	if len(stats.Teams) != 1 {
		t.Fatalf("team standings = %d, want 1 (bob has no team)", len(stats.Teams))
	}
	if stats.Teams[0].Name != "Red" || stats.Teams[0].CorrectAnswers != 2 {
		t.Errorf("team standing = %+v", stats.Teams[0])
	}
}

func TestAggregateEmptySession(t *testing.T) {
	env := newTestEnv(t)
	session := env.newQuizSession(t, 3)

	stats, err := env.stats.Aggregate(session.ID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if stats.TotalRounds != 3 || stats.TotalAnswers != 0 || stats.CorrectAnswers != 0 {
		t.Errorf("stats = %+v, want 3 rounds and no answers", stats)
	}
	if len(stats.Players) != 0 {
		t.Errorf("expected no standings, got %+v", stats.Players)
	}
}
