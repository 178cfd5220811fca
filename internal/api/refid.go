package api

import (
	"crypto/rand"
	"encoding/hex"
)

const refIDBytes = 4

// NewRefID mints the short random hex reference id threaded through every
// log line and error response for one request.
func NewRefID() string {
	buf := make([]byte, refIDBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is a process-level problem; a fixed id
		// still lets the request complete.
		return "00000000"
	}
	return hex.EncodeToString(buf)
}
