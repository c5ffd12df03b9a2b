// Package ident mints the opaque identifiers the messenger hands out:
// UUID v4 for message records and short hex NanoIDs for participants.
package ident

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator mints opaque string identifiers.
type Generator interface {
	Generate() (string, error)
}

// UUIDGenerator generates UUID v4 IDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %w", err)
	}
	return id.String(), nil
}

const (
	// ParticipantIDSize is the length of participant tokens.
	ParticipantIDSize = 8
	// ParticipantIDAlphabet keeps participant tokens lowercase hex.
	ParticipantIDAlphabet = "0123456789abcdef"
)

// NanoIDGenerator generates NanoID identifiers with configurable size and
// alphabet.
type NanoIDGenerator struct {
	size     int
	alphabet string
}

// NewNanoIDGenerator creates a new NanoIDGenerator.
// size must be between 1 and 256. alphabet must have at least 2 characters.
func NewNanoIDGenerator(size int, alphabet string) (*NanoIDGenerator, error) {
	if size < 1 || size > 256 {
		return nil, fmt.Errorf("nanoid size must be between 1 and 256, got %d", size)
	}
	if len(alphabet) < 2 {
		return nil, fmt.Errorf("nanoid alphabet must have at least 2 characters, got %d", len(alphabet))
	}
	return &NanoIDGenerator{
		size:     size,
		alphabet: alphabet,
	}, nil
}

// NewParticipantIDGenerator returns the generator used for participant
// tokens: 8 lowercase hex characters.
func NewParticipantIDGenerator() *NanoIDGenerator {
	g, err := NewNanoIDGenerator(ParticipantIDSize, ParticipantIDAlphabet)
	if err != nil {
		// Static parameters, cannot fail.
		panic(err)
	}
	return g
}

func (g *NanoIDGenerator) Generate() (string, error) {
	id, err := gonanoid.Generate(g.alphabet, g.size)
	if err != nil {
		return "", fmt.Errorf("failed to generate NanoID: %w", err)
	}
	return id, nil
}
