package pkg

import "github.com/google/uuid"

// GenerateNewSessionID - random session id for the websocket cookie.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
