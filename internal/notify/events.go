package notify

import "time"

// Event is the push envelope: a flat JSON object with "type", "timestamp" and
// type-specific fields. Payloads are summaries only; clients are expected to
// re-fetch authoritative state over REST when an event arrives.
type Event map[string]any

const (
	EventNewSession       = "new_session"
	EventSessionActivated = "session_activated"
	EventNewRound         = "new_round"
	EventRoundEnded       = "round_ended"
	EventRevealAnswers    = "reveal_answers"
	EventGameEnded        = "game_ended"
	EventAnswerSubmitted  = "answer_submitted"
	EventScoreUpdate      = "score_update"
	EventPlayerJoined     = "player_joined"
)

func NewEvent(eventType string, fields map[string]any) Event {
	e := Event{
		"type":      eventType,
		"timestamp": time.Now().UTC(),
	}
	for k, v := range fields {
		e[k] = v
	}
	return e
}

func (e Event) EventType() string {
	t, _ := e["type"].(string)
	return t
}
