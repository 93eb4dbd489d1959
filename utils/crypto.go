package utils

import (
	"crypto/rand"
	"math/big"
)

func GenerateRandomString(length int) string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// MaskToken keeps the first and last four characters of a token for logs.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
