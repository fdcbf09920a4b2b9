package admin

import "time"

// GateResponse reports the state of the pause switch
type GateResponse struct {
	Paused    bool      `json:"paused"`
	CheckedAt time.Time `json:"checked_at"`
}
