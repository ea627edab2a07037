package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Identity is the per-session user identity. An empty display name means the
// session is anonymous; UserID is only meaningful for signed-in sessions.
type Identity struct {
	DisplayName string `json:"displayName"`
	UserID      string `json:"userId"`
}

// Anonymous reports whether no display name is associated with the session.
func (i Identity) Anonymous() bool {
	return i.DisplayName == ""
}

// ObjectIDLength is the length of the hex user identifier expected by the
// remote rating API.
const ObjectIDLength = 24

// NewObjectID generates a 24-character lowercase hex identifier in the
// database object-id layout: 8 hex digits of unix timestamp, 6 of a random
// machine component, 4 of a random process component, 6 of a random counter.
// It is not cryptographically significant; it only has to be well-formed and
// stable for the session once persisted.
func NewObjectID() string {
	return fmt.Sprintf("%08x%06x%04x%06x",
		uint32(time.Now().Unix()),
		rand.Intn(1<<24),
		rand.Intn(1<<16),
		rand.Intn(1<<24),
	)
}

// ValidObjectID reports whether s is a well-formed 24-character lowercase hex
// identifier.
func ValidObjectID(s string) bool {
	if len(s) != ObjectIDLength {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
