package utils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

var glyphs = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‛", "'",
	"ʼ", "'", // modifier apostrophe
	"´", "'", // acute accent
	"`", "'",
	"′", "'", // prime
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-",
	"−", "-", // minus
)

// FoldName returns the case-folded, glyph-normalised form of a card name.
// Curly apostrophes and typographic dashes collapse to their ASCII forms and
// runs of whitespace collapse to one space.
func FoldName(s string) string {
	s = norm.NFKC.String(s)
	s = glyphs.Replace(s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// FuzzyName is FoldName with everything except letters and digits removed,
// so "Han's" and "Hans" compare equal.
func FuzzyName(s string) string {
	folded := FoldName(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseCardNumber reports the numeric value of a card number made only of
// digits (surrounding spaces ignored). Promo codes like "P1" are not numeric.
func ParseCardNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompareCardNumbers orders numeric card numbers ascending, followed by every
// non-numeric card number in text order.
func CompareCardNumbers(a, b string) int {
	an, aNum := ParseCardNumber(a)
	bn, bNum := ParseCardNumber(b)
	switch {
	case aNum && bNum:
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// CompareAppearances orders two set appearances by card number and then by
// rarity code. An absent rarity sorts after any present one.
func CompareAppearances(aNumber string, aRarity *string, bNumber string, bRarity *string) int {
	if c := CompareCardNumbers(aNumber, bNumber); c != 0 {
		return c
	}
	switch {
	case aRarity == nil && bRarity == nil:
		return 0
	case aRarity == nil:
		return 1
	case bRarity == nil:
		return -1
	default:
		return strings.Compare(*aRarity, *bRarity)
	}
}
