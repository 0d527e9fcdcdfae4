package idgen

import (
	"crypto/rand"
	"fmt"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewPublicID generates an alphanumeric public identifier with the given
// prefix, e.g. "conv_8f2k...". Prefixed ids keep entity types recognizable in
// logs and API payloads.
func NewPublicID(prefix string) string {
	const length = 22

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failing means the process has bigger problems;
		// fall back to an all-zero suffix rather than panicking.
		return fmt.Sprintf("%s_%022d", prefix, 0)
	}

	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%36]
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded))
}
