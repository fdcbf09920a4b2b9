package security

import (
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleOracle = "oracle"
)

// Maker makes a new token
type Maker interface {

	// CreateToken creates a new token for subject carrying roles
	CreateToken(subject string, roles []string, duration time.Duration) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not
	VerifyToken(token string) (*Payload, error)
}
