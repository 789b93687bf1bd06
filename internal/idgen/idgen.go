// Package idgen generates short, URL-safe IDs for views and records.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// ID prefixes by entity.
const (
	ViewPrefix   = "vw-"
	RecordPrefix = "rec-"
)

// alphabet is the character set for the random portion of an ID. It has no
// characters that need escaping in a URL query.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
const Length = 10

// ViewID returns a new saved-view ID.
func ViewID() (string, error) {
	return WithPrefix(ViewPrefix)
}

// RecordID returns a new record ID.
func RecordID() (string, error) {
	return WithPrefix(RecordPrefix)
}

// WithPrefix returns a new unique ID with the given prefix.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
