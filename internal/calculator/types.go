package calculator

// KeysRequest is the JSON body for POST /calculator/sessions/{sessionID}/keys
// and POST /calculator/evaluate.
type KeysRequest struct {
	Keys []string `json:"keys"` // button labels, e.g. "7", "+", ".", "%", "±", "C", "="
}

// SessionResponse describes the current state of a session's display.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Display   string `json:"display"`
	Phase     string `json:"phase"`
	Operator  string `json:"operator,omitempty"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Steps   []KeyResult `json:"steps"`
	Display string      `json:"display"`
}

// KeyResult records the display after one applied key.
type KeyResult struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

func newSessionResponse(id string, e *Engine) SessionResponse {
	return SessionResponse{
		SessionID: id,
		Display:   e.DisplayText(),
		Phase:     e.Phase().String(),
		Operator:  e.Operator().String(),
	}
}
