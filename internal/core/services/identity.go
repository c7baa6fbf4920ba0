package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

// contentNamespace is the fixed namespace for name-based content IDs.
// Changing it would re-key every row; it is part of the data contract.
var contentNamespace = uuid.MustParse("8f2f1c4e-5d09-47a1-9b3e-64c1d0a6b7f2")

// ContentID derives the deterministic identifier for a business key.
// The same (sourceType, externalID) pair always maps to the same ID,
// across processes and re-ingestion runs.
func ContentID(sourceType, externalID string) string {
	return uuid.NewSHA1(contentNamespace, []byte(sourceType+"\x00"+externalID)).String()
}

// BodyHash returns the hex SHA-256 of a content body.
func BodyHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// SynthesizedHash derives a stable placeholder hash for a content row
// that has no backing document chunk. The chunk index is mixed in behind
// a separator so the result never equals BodyHash of the same text.
func SynthesizedHash(body string, chunkIndex int) string {
	h := sha256.New()
	h.Write([]byte(body))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(chunkIndex)))
	return hex.EncodeToString(h.Sum(nil))
}
