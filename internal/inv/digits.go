package inv

import "strings"

// digitZeros lists the zero glyph of each numeral script folded to ASCII.
var digitZeros = []rune{
	'٠', // Arabic-Indic
	'۰', // Extended Arabic-Indic (Persian, Urdu)
	'०', // Devanagari
	'০', // Bengali
	'０', // Fullwidth
}

// NormalizeDigits maps every recognized non-ASCII digit glyph to its ASCII
// equivalent and leaves all other runes untouched.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 {
			return r
		}
		for _, zero := range digitZeros {
			if r >= zero && r <= zero+9 {
				return '0' + (r - zero)
			}
		}
		return r
	}, s)
}

// DigitsOnly normalizes s and drops every rune that is not an ASCII digit.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, NormalizeDigits(s))
}
