package crypto

import "unicode"

// MinPassphraseLen is the hard lower bound on passphrase length.
const MinPassphraseLen = 8

// MinPassphraseScore is the acceptance threshold for Score.
const MinPassphraseScore = 3

// Score rates a passphrase: one point each for length of at least 12
// and for the presence of lowercase, uppercase, digit, and symbol
// characters. Maximum score is 5.
func Score(passphrase string) int {
	score := 0
	if len(passphrase) >= 12 {
		score++
	}

	var lower, upper, digit, symbol bool
	for _, r := range passphrase {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	for _, present := range []bool{lower, upper, digit, symbol} {
		if present {
			score++
		}
	}
	return score
}

// Acceptable reports whether a passphrase meets the single acceptance
// rule: length at least MinPassphraseLen and score at least
// MinPassphraseScore.
func Acceptable(passphrase string) bool {
	return len(passphrase) >= MinPassphraseLen && Score(passphrase) >= MinPassphraseScore
}
