package importing

import (
	"crypto/rand"
	"fmt"
)

// Alphabet without easily confused characters (0/O, 1/l/I).
const credentialAlphabet = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

const credentialLength = 12

// GenerateCredential produces the one-time credential handed to a newly
// created identity. Only the bcrypt hash is persisted; the plaintext travels
// to the notifier once and is then discarded.
func GenerateCredential() (string, error) {
	// Bytes at or above this threshold are rejected so every alphabet
	// character is equally likely.
	const limit = 256 - 256%len(credentialAlphabet)

	out := make([]byte, 0, credentialLength)
	buf := make([]byte, credentialLength)
	for len(out) < credentialLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, credentialAlphabet[int(b)%len(credentialAlphabet)])
			if len(out) == credentialLength {
				break
			}
		}
	}
	return string(out), nil
}
