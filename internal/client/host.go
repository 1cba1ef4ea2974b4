package client

import (
	"fmt"

	"party-game-backend/internal/notify"
)

// Host is the only role that drives the session forward. Every action
// re-resolves the current state from the server first: push callbacks can
// outlive the view that captured them, so acting on a stale snapshot would
// target the wrong round.
type Host struct {
	*Client
}

func NewHost(baseURL, gameType, authToken string) *Host {
	c := New(baseURL, gameType)
	c.authToken = authToken
	return &Host{Client: c}
}

// Watch subscribes to the session's round and score topics.
func (h *Host) Watch() error {
	sessionID := h.SessionID()
	if sessionID == 0 {
		return fmt.Errorf("no session attached")
	}
	return h.Subscribe(
		notify.SessionTopic(sessionID),
		notify.RoundsTopic(sessionID),
		notify.ScoresTopic(sessionID),
	)
}

func (h *Host) Initialize(itemIDs []uint) error {
	path := fmt.Sprintf("/api/v1/%s/session/%d/initialize", h.gameType, h.SessionID())
	return h.post(path, map[string]any{"item_ids": itemIDs}, nil)
}

func (h *Host) Start() error {
	path := fmt.Sprintf("/api/v1/%s/session/%d/start", h.gameType, h.SessionID())
	if err := h.post(path, nil, nil); err != nil {
		return err
	}
	return h.Refresh()
}

func (h *Host) Advance() error {
	if err := h.Refresh(); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/v1/%s/session/%d/next", h.gameType, h.SessionID())
	if err := h.post(path, nil, nil); err != nil {
		return err
	}
	return h.Refresh()
}

type RevealView struct {
	RoundID             uint     `json:"round_id"`
	CorrectAnswer       string   `json:"correct_answer"`
	Answers             []Answer `json:"answers"`
	CorrectAnswersCount int      `json:"correct_answers_count"`
	TotalAnswersCount   int      `json:"total_answers_count"`
}

type Answer struct {
	ID             uint   `json:"id"`
	PlayerID       uint   `json:"player_id"`
	GuessedValue   string `json:"guessed_value"`
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	ResponseTimeMs *int   `json:"response_time_ms,omitempty"`
}

// Reveal fetches the reveal view for the freshest current round.
func (h *Host) Reveal() (*RevealView, error) {
	if err := h.Refresh(); err != nil {
		return nil, err
	}

	session := h.Session()
	if session == nil || session.CurrentRound == nil {
		return nil, fmt.Errorf("no current round to reveal")
	}

	var view RevealView
	path := fmt.Sprintf("/api/v1/%s/round/%d/reveal", h.gameType, session.CurrentRound.ID)
	if err := h.get(path, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
