package auth

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	specialChars   = "!_-#"
)

// GenerateTemporaryPassword builds a random password of at least eight
// characters containing one uppercase letter, one lowercase letter, one
// digit and one special character.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	var b strings.Builder
	for _, set := range []string{uppercaseChars, lowercaseChars, digitChars, specialChars} {
		ch, err := randomChar(set)
		if err != nil {
			return "", err
		}
		b.WriteByte(ch)
	}

	all := lowercaseChars + uppercaseChars + digitChars + specialChars
	for b.Len() < length {
		ch, err := randomChar(all)
		if err != nil {
			return "", err
		}
		b.WriteByte(ch)
	}
	return b.String(), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
