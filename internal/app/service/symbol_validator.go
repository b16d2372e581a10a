package service

import (
	"regexp"
	"strings"
)

// maxSymbolLength is the longest ticker accepted from chain metadata.
const maxSymbolLength = 10

var symbolCharset = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// spamMarkers are substrings of scam airdrop token symbols.
var spamMarkers = []string{
	"claim", "airdrop", "free", "bonus", "visit", "reward", "gift", "voucher",
	"www", "http", ".com", ".io", ".org", ".net", "t.me",
}

// ValidTokenSymbol reports whether a symbol from token metadata looks like a
// real ticker rather than spam.
func ValidTokenSymbol(symbol string) bool {
	if symbol == "" || len(symbol) > maxSymbolLength || !symbolCharset.MatchString(symbol) {
		return false
	}
	lower := strings.ToLower(symbol)
	for _, m := range spamMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}
