package ws

import "encoding/json"

// Client-to-server message types
const (
	MsgRegister         = "register"
	MsgSendChallenge    = "send_challenge"
	MsgRespondChallenge = "respond_challenge"
	MsgSubmitGuess      = "submit_guess"
	MsgLeaveGame        = "leave_game"
)

// Envelope is the wire framing for client-to-server messages. Server-to-client
// events use the same {"type", "data"} shape via model.Event.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RegisterRequest associates the connection with a player identity. The
// identity is trusted as resolved by the external identity service.
type RegisterRequest struct {
	Identity string `json:"identity"`
}

// SendChallengeRequest creates a challenge for another player
type SendChallengeRequest struct {
	To         string `json:"to"`
	Difficulty string `json:"difficulty"`
	Code       string `json:"code"`
}

// RespondChallengeRequest accepts or declines a pending challenge
type RespondChallengeRequest struct {
	Code   string `json:"code"`
	Accept bool   `json:"accept"`
}

// SubmitGuessRequest attempts a word guess in an active session
type SubmitGuessRequest struct {
	SessionID string `json:"session_id"`
	Guess     string `json:"guess"`
}

// LeaveGameRequest voluntarily ends a session early
type LeaveGameRequest struct {
	SessionID string `json:"session_id"`
}
