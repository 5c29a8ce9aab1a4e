// Package idgen provides short, URL-safe unique ID generation backed by nanoid,
// with uuid and deterministic alternatives.
package idgen

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// Generator produces ids of the form prefix + suffix.
type Generator interface {
	NewID(prefix string) (string, error)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Nanoid generates random ids with GenerateWithPrefix.
type Nanoid struct{}

// NewID implements Generator.
func (Nanoid) NewID(prefix string) (string, error) {
	return GenerateWithPrefix(prefix)
}

// UUID generates random version-4 uuids.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID(prefix string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + u.String(), nil
}

// Sequence returns prefix + n for n = 1, 2, ... It is safe for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	next int
}

// NewID implements Generator.
func (s *Sequence) NewID(prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return prefix + strconv.Itoa(s.next), nil
}

// ForStyle returns the generator named by style ("nanoid", "uuid" or "sequence").
func ForStyle(style string) (Generator, error) {
	switch style {
	case "", "nanoid":
		return Nanoid{}, nil
	case "uuid":
		return UUID{}, nil
	case "sequence":
		return &Sequence{}, nil
	default:
		return nil, fmt.Errorf("idgen: unknown id style %q", style)
	}
}
