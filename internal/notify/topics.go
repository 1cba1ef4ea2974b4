package notify

import "fmt"

// GlobalSessionsTopic carries new_session and session_activated events for
// clients that auto-attach to the featured session of a game type.
const GlobalSessionsTopic = "global/sessions"

func SessionTopic(sessionID uint) string {
	return fmt.Sprintf("game-session/%d", sessionID)
}

func RoundsTopic(sessionID uint) string {
	return fmt.Sprintf("game-session/%d/rounds", sessionID)
}

func ScoresTopic(sessionID uint) string {
	return fmt.Sprintf("game-session/%d/scores", sessionID)
}

func ParticipantsTopic(sessionID uint) string {
	return fmt.Sprintf("game-session/%d/participants", sessionID)
}

func AnswersTopic(sessionID, roundID uint) string {
	return fmt.Sprintf("game-session/%d/rounds/%d/answers", sessionID, roundID)
}
