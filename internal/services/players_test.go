package services

import (
	"testing"

	"party-game-backend/internal/apperr"
	"party-game-backend/internal/notify"
)

func TestRegisterPlayer(t *testing.T) {
	env := newTestEnv(t)
	session := env.newQuizSession(t, 1)

	env.sink.reset()
	result, err := env.players.Register("carol", nil, "", &session.ID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.IsRejoin {
		t.Error("first registration flagged as rejoin")
	}
	if result.Player.DeviceToken == "" {
		t.Error("device token not generated")
	}

	messages := env.sink.messages
	if len(messages) != 1 || messages[0].Event.EventType() != notify.EventPlayerJoined {
		t.Fatalf("register events = %v, want [player_joined]", env.sink.eventTypes())
	}
	if messages[0].Topic != notify.ParticipantsTopic(session.ID) {
		t.Errorf("published on %q, want participants topic", messages[0].Topic)
	}

	// Same token comes back as the same player.
	again, err := env.players.Register("carol", nil, result.Player.DeviceToken, nil)
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if !again.IsRejoin || again.Player.ID != result.Player.ID {
		t.Errorf("re-register = %+v, want rejoin of player %d", again, result.Player.ID)
	}

	if _, err := env.players.Register("  ", nil, "", nil); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("blank name: expected validation error, got %v", err)
	}

	teamID := uint(999)
	if _, err := env.players.Register("dave", &teamID, "", nil); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("unknown team: expected not found, got %v", err)
	}
}

func TestGetByToken(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.players.Register("erin", nil, "", nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	player, err := env.players.GetByToken(result.Player.DeviceToken)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if player.ID != result.Player.ID {
		t.Errorf("lookup returned player %d, want %d", player.ID, result.Player.ID)
	}

	if _, err := env.players.GetByToken("nope"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("unknown token: expected not found, got %v", err)
	}
}

func TestTeams(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.players.CreateTeam("Blue", "#1368ce"); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if _, err := env.players.CreateTeam("", ""); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("blank team name: expected validation error, got %v", err)
	}

	teams, err := env.players.ListTeams()
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "Blue" {
		t.Errorf("teams = %+v, want [Blue]", teams)
	}
}
