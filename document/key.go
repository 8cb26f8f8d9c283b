package document

import (
	"errors"
	"fmt"
	"strings"
)

const (
	bsonSplitter = "$"
	bsonTokenLen = 2
)

// ErrInvalidBSONKey is returned when a BSON key string does not have the
// form "collection$document".
var ErrInvalidBSONKey = errors.New("invalid bson key")

// Key identifies a document by collection and document name. The textual
// form is "collection$document".
type Key struct {
	collection string
	document   string
}

// FromBSONKey parses bsonKey into a Key. The key must consist of exactly
// two "$"-separated tokens.
func FromBSONKey(bsonKey string) (Key, error) {
	splits := strings.Split(bsonKey, bsonSplitter)
	if len(splits) != bsonTokenLen {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidBSONKey, bsonKey)
	}

	return Key{collection: splits[0], document: splits[1]}, nil
}

// BSONKey returns the textual form of this key.
func (k Key) BSONKey() string {
	return k.collection + bsonSplitter + k.document
}

// Collection returns the collection part of this key.
func (k Key) Collection() string {
	return k.collection
}

// Document returns the document part of this key.
func (k Key) Document() string {
	return k.document
}
