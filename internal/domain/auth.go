package domain

import "time"

// Identity is the verified caller carried by a bearer token.
type Identity struct {
	Email     string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
