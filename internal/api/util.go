package api

import (
	"math/rand"
	"regexp"
	"strings"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 8

// generateDuelCode creates a short alphanumeric code for joining duels.
func generateDuelCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

var duelCodeRegex = regexp.MustCompile("^[A-Z0-9]{8}$")

func normalizeDuelCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
