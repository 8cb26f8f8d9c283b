// Package time provides the logical clock primitives used to order
// concurrent edits: actor identifiers, lamport tickets and a per-actor
// ticket issuer.
package time

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// ActorIDSize is the fixed byte length of an ActorID.
const ActorIDSize = 12

// ErrInvalidActorIDHex is returned when a hex string cannot be decoded
// into an ActorID.
var ErrInvalidActorIDHex = errors.New("invalid actor id hex string")

// ActorID identifies the writer of an edit. It is a fixed 12-byte value
// whose textual form is lowercase hexadecimal. It must be unique per
// client; the server hands one out on activation.
type ActorID struct {
	bytes [ActorIDSize]byte
}

// InitialActorID is the zero actor, used before a client is activated.
var InitialActorID = ActorID{}

// ActorIDFromBytes builds an ActorID from raw bytes. b must be exactly
// ActorIDSize bytes long.
func ActorIDFromBytes(b []byte) (ActorID, error) {
	if len(b) != ActorIDSize {
		return ActorID{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidActorIDHex, len(b), ActorIDSize)
	}
	var id ActorID
	copy(id.bytes[:], b)
	return id, nil
}

// ActorIDFromHex decodes the hexadecimal string s into an ActorID.
// The empty string and strings of the wrong length are errors.
func ActorIDFromHex(s string) (ActorID, error) {
	if s == "" {
		return ActorID{}, fmt.Errorf("%w: empty string", ErrInvalidActorIDHex)
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return ActorID{}, fmt.Errorf("%w: %v", ErrInvalidActorIDHex, err)
	}
	return ActorIDFromBytes(decoded)
}

// String returns the hexadecimal encoding of this ActorID.
func (id ActorID) String() string {
	return hex.EncodeToString(id.bytes[:])
}

// Bytes returns a copy of the raw bytes of this ActorID.
func (id ActorID) Bytes() []byte {
	b := make([]byte, ActorIDSize)
	copy(b, id.bytes[:])
	return b
}

// Compare orders two ActorIDs lexicographically by byte value. It returns
// -1, 0 or 1.
func (id ActorID) Compare(other ActorID) int {
	return bytes.Compare(id.bytes[:], other.bytes[:])
}
