package utils

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID returns a random lowercase base36 token of the given length.
func GenerateID(length int) string {
	// largest multiple of len(codeAlphabet) that fits in a byte, to keep the
	// distribution uniform
	const limit = 256 - 256%len(codeAlphabet)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}

// NewConnectionID returns the handle identifying one websocket connection.
func NewConnectionID() string {
	return uuid.NewString()
}

// ValidAccountID reports whether id looks like an account identifier issued by the store.
func ValidAccountID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
