package gate

import "math/rand"

const (
	DisplayIDLength   = 8
	displayIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewDisplayID returns a human friendly profile id. It is not a credential
// and is not checked for collisions.
func NewDisplayID() string {
	b := make([]byte, DisplayIDLength)
	for i := range b {
		b[i] = displayIDAlphabet[rand.Intn(len(displayIDAlphabet))]
	}
	return string(b)
}
