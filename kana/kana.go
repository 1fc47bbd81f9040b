// Package kana converts between the hiragana and katakana syllabaries.
package kana

// The letter windows ぁ..ん and ァ..ン sit exactly 0x60 apart.
const (
	hiraganaFirst = 0x3041
	hiraganaLast  = 0x3093
	katakanaFirst = 0x30A1
	katakanaLast  = 0x30F3
	offset        = katakanaFirst - hiraganaFirst
)

// IsHiragana reports whether r is in the hiragana letter window.
func IsHiragana(r rune) bool {
	return r >= hiraganaFirst && r <= hiraganaLast
}

// IsKatakana reports whether r is in the katakana letter window.
func IsKatakana(r rune) bool {
	return r >= katakanaFirst && r <= katakanaLast
}

// ToHiragana converts katakana letters to hiragana. Everything else,
// including the long vowel mark, kanji and punctuation, passes through.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if IsKatakana(r) {
			runes[i] = r - offset
		}
	}
	return string(runes)
}

// ToKatakana converts hiragana letters to katakana.
func ToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if IsHiragana(r) {
			runes[i] = r + offset
		}
	}
	return string(runes)
}
