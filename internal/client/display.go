package client

import (
	"fmt"
	"log"

	"party-game-backend/internal/notify"
)

// Display is passive: it renders whatever session is currently featured for
// its game type and follows activation events to the next one.
type Display struct {
	*Client
}

func NewDisplay(baseURL, gameType string) *Display {
	d := &Display{Client: New(baseURL, gameType)}
	d.onActivated = func(sessionID uint, gameType string) {
		if err := d.attach(sessionID); err != nil {
			log.Printf("display: re-attach to session %d failed: %v", sessionID, err)
		}
	}
	return d
}

// Attach finds the active session for the display's game type and follows it.
func (d *Display) Attach() error {
	var state SessionState
	path := fmt.Sprintf("/api/v1/%s/session/active", d.gameType)
	if err := d.get(path, &state); err != nil {
		return fmt.Errorf("no active session: %w", err)
	}
	return d.attach(state.SessionID)
}

func (d *Display) attach(sessionID uint) error {
	d.AttachSession(sessionID)
	if err := d.Refresh(); err != nil {
		return err
	}
	return d.Subscribe(
		notify.GlobalSessionsTopic,
		notify.SessionTopic(sessionID),
		notify.RoundsTopic(sessionID),
		notify.ScoresTopic(sessionID),
		notify.ParticipantsTopic(sessionID),
	)
}
