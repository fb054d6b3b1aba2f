// Package id generates prefixed unique identifiers for all entity records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Well-known entity prefixes. Keeping them in one place makes raw database
// keys self-describing when inspecting the store.
const (
	PrefixList         = "list"
	PrefixListItem     = "item"
	PrefixUserList     = "ulist"
	PrefixUserListItem = "uitem"
	PrefixToken        = "token"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "list-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random
// generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only where failure should crash the program (e.g., initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
