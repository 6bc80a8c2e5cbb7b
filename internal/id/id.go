package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes used for entity IDs.
const (
	PrefixGame = "game"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "game-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly and compact (21 characters vs UUID's 36).
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
