package sssig

import (
	"crypto/sha256"
	"encoding/base32"

	"github.com/dlclark/regexp2"
)

// IDPrefix starts every SSSIG rule ID.
const IDPrefix = "S3IG"

// idRe matches IDs produced by GenerateID.
var idRe = regexp2.MustCompile(`^S3IG[A-Z2-7]{16}$`, regexp2.RE2)

// GenerateID derives a stable SSSIG ID from a source rule ID: the prefix
// followed by the first 16 base32 characters of the SHA-256 of the ID.
func GenerateID(sourceID string) string {
	sum := sha256.Sum256([]byte(sourceID))
	return IDPrefix + base32.StdEncoding.EncodeToString(sum[:])[:16]
}

// ValidID reports whether id has the S3IG[A-Z2-7]{16} form.
func ValidID(id string) bool {
	ok, err := idRe.MatchString(id)
	return err == nil && ok
}
