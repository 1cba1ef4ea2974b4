package client

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"party-game-backend/internal/notify"
)

// TokenStore persists the player's device token across restarts, mirroring
// what the browser client keeps in local storage.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
}

type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

var ErrAlreadyAnswered = fmt.Errorf("already answered this round")

// Player registers an identity once and submits at most one guess per round.
// The local lock engages on submit and releases on the next new_round event.
type Player struct {
	*Client
	store TokenStore

	stateMu     sync.Mutex
	playerID    uint
	deviceToken string
	answered    bool
}

func NewPlayer(baseURL, gameType string, store TokenStore) *Player {
	p := &Player{Client: New(baseURL, gameType), store: store}
	p.onNewRound = func() {
		p.stateMu.Lock()
		p.answered = false
		p.stateMu.Unlock()
	}
	p.onActivated = func(sessionID uint, gameType string) {
		// Silent redirect to the newly featured session.
		if err := p.Join(sessionID); err != nil {
			log.Printf("player: redirect to session %d failed: %v", sessionID, err)
		}
	}
	return p
}

type registerResponse struct {
	Player struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		DeviceToken string `json:"device_token"`
	} `json:"player"`
	IsRejoin bool `json:"is_rejoin"`
}

// Register creates (or recovers) the player identity and persists the token.
func (p *Player) Register(name string, teamID *uint) error {
	token := ""
	if p.store != nil {
		if loaded, err := p.store.Load(); err == nil {
			token = loaded
		}
	}

	body := map[string]any{"name": name, "device_token": token}
	if teamID != nil {
		body["team_id"] = *teamID
	}

	var resp registerResponse
	if err := p.post("/api/v1/players", body, &resp); err != nil {
		return err
	}

	p.stateMu.Lock()
	p.playerID = resp.Player.ID
	p.deviceToken = resp.Player.DeviceToken
	p.stateMu.Unlock()

	if p.store != nil {
		if err := p.store.Save(resp.Player.DeviceToken); err != nil {
			log.Printf("player: saving device token failed: %v", err)
		}
	}
	return nil
}

// Join attaches to a session and subscribes to its topics.
func (p *Player) Join(sessionID uint) error {
	p.AttachSession(sessionID)
	p.stateMu.Lock()
	p.answered = false
	p.stateMu.Unlock()

	if err := p.Refresh(); err != nil {
		return err
	}
	return p.Subscribe(
		notify.GlobalSessionsTopic,
		notify.SessionTopic(sessionID),
		notify.RoundsTopic(sessionID),
	)
}

// JoinActive attaches to the currently featured session of the player's game type.
func (p *Player) JoinActive() error {
	var state SessionState
	path := fmt.Sprintf("/api/v1/%s/session/active", p.gameType)
	if err := p.get(path, &state); err != nil {
		return fmt.Errorf("no active session: %w", err)
	}
	return p.Join(state.SessionID)
}

type SubmitResult struct {
	ID          uint   `json:"id"`
	IsCorrect   bool   `json:"is_correct"`
	SubmittedAt string `json:"submitted_at"`
}

// SubmitGuess sends the player's answer for the current round. The UI stays
// locked until the next round opens.
func (p *Player) SubmitGuess(value string, responseTimeMs *int) (*SubmitResult, error) {
	p.stateMu.Lock()
	if p.answered {
		p.stateMu.Unlock()
		return nil, ErrAlreadyAnswered
	}
	playerID := p.playerID
	p.stateMu.Unlock()

	if playerID == 0 {
		return nil, fmt.Errorf("player not registered")
	}

	if err := p.Refresh(); err != nil {
		return nil, err
	}
	session := p.Session()
	if session == nil || session.CurrentRound == nil {
		return nil, fmt.Errorf("no round in progress")
	}

	body := map[string]any{"player_id": playerID, "guessed_value": value}
	if responseTimeMs != nil {
		body["response_time_ms"] = *responseTimeMs
	}

	var result SubmitResult
	path := fmt.Sprintf("/api/v1/%s/round/%d/answer", p.gameType, session.CurrentRound.ID)
	if err := p.post(path, body, &result); err != nil {
		return nil, err
	}

	p.stateMu.Lock()
	p.answered = true
	p.stateMu.Unlock()
	return &result, nil
}

// Answered reports whether the local submit lock is engaged.
func (p *Player) Answered() bool {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.answered
}
