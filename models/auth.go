package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is what the engine needs from a caller's token: who they are and
// which role they act in. Token issuance lives outside this service.
type JWTClaims struct {
	ActorID string    `json:"actor_id"`
	Name    string    `json:"name,omitempty"`
	Role    ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// ToActor converts the claims into the engine's actor record.
func (c *JWTClaims) ToActor() Actor {
	return Actor{ID: c.ActorID, Role: c.Role}
}
