package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentID_Deterministic(t *testing.T) {
	id1 := ContentID("upload", "doc-42")
	id2 := ContentID("upload", "doc-42")
	assert.Equal(t, id1, id2)

	// Valid UUID string shape
	assert.Len(t, id1, 36)
}

func TestContentID_DistinctKeys(t *testing.T) {
	assert.NotEqual(t, ContentID("upload", "doc-1"), ContentID("upload", "doc-2"))
	assert.NotEqual(t, ContentID("upload", "doc-1"), ContentID("email", "doc-1"))

	// The separator keeps (type, id) pairs from colliding when their
	// concatenations are identical.
	assert.NotEqual(t, ContentID("up", "load-1"), ContentID("uplo", "ad-1"))
}

func TestBodyHash(t *testing.T) {
	// Known SHA-256 of "hello"
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		BodyHash("hello"))

	assert.Equal(t, BodyHash("same"), BodyHash("same"))
	assert.NotEqual(t, BodyHash("a"), BodyHash("b"))
}

func TestSynthesizedHash(t *testing.T) {
	// Stable for identical input
	assert.Equal(t, SynthesizedHash("body", 0), SynthesizedHash("body", 0))

	// Distinct per chunk index
	assert.NotEqual(t, SynthesizedHash("body", 0), SynthesizedHash("body", 1))

	// Never collides with the plain body hash of the same text
	assert.NotEqual(t, BodyHash("body"), SynthesizedHash("body", 0))
}
