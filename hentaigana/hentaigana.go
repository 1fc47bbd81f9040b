// Package hentaigana renders hiragana with historical variant glyphs.
package hentaigana

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRatio is returned for mixing ratios outside [0, 1].
var ErrInvalidRatio = errors.New("hentaigana: ratio must be within [0, 1]")

// Table maps a hiragana character to its candidate variant glyphs.
type Table map[rune][]rune

// RandomSource supplies the draws for Apply. *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

var defaultTable = Table{
	'あ': {'阿'}, 'う': {'有'}, 'お': {'於'}, 'か': {'可'}, 'き': {'幾', '支'}, 'く': {'具'}, 'け': {'介'}, 'こ': {'古'},
	'さ': {'佐'}, 'す': {'春', '寿'}, 'せ': {'勢'}, 'そ': {'所', '楚'}, 'た': {'多', '堂'}, 'ち': {'遅'}, 'つ': {'徒'}, 'と': {'登'},
	'な': {'那'}, 'に': {'尓', '耳'}, 'ね': {'年'}, 'の': {'能'}, 'は': {'者', '盤'}, 'ひ': {'非', '悲'}, 'ふ': {'婦', '布'}, 'ほ': {'本'},
	'ま': {'万', '満'}, 'み': {'見', '身'}, 'む': {'無'}, 'め': {'免'}, 'も': {'裳'}, 'や': {'夜'}, 'ゆ': {'由'}, 'よ': {'世'},
	'ら': {'羅'}, 'り': {'里', '累'}, 'る': {'流'}, 'れ': {'連'}, 'わ': {'王'},
}

// Default returns a copy of the built-in variant table.
func Default() Table {
	return defaultTable.Clone()
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = slices.Clone(v)
	}
	return out
}

// Candidates returns the variants registered for r.
func (t Table) Candidates(r rune) []rune {
	return t[r]
}

// Count returns the number of characters that have at least one variant.
func (t Table) Count() int {
	n := 0
	for _, v := range t {
		if len(v) > 0 {
			n++
		}
	}
	return n
}

// Merge returns a new table where entries of override replace those of t.
// An empty candidate list in override removes the character.
func (t Table) Merge(override Table) Table {
	out := t.Clone()
	for k, v := range override {
		if len(v) == 0 {
			delete(out, k)
			continue
		}
		out[k] = slices.Clone(v)
	}
	return out
}

// LoadTable reads a YAML mapping of single characters to lists of single
// character variants, e.g.
//
//	あ: [阿, 安]
//	か: [可, 加]
func LoadTable(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hentaigana: read %q: %w", path, err)
	}
	return ParseTable(b)
}

// ParseTable decodes the YAML format accepted by LoadTable.
func ParseTable(b []byte) (Table, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("hentaigana: decode table: %w", err)
	}
	t := make(Table, len(raw))
	for k, vs := range raw {
		base, err := singleRune(k)
		if err != nil {
			return nil, err
		}
		cands := make([]rune, 0, len(vs))
		for _, v := range vs {
			r, err := singleRune(v)
			if err != nil {
				return nil, fmt.Errorf("%w (variant of %q)", err, k)
			}
			cands = append(cands, r)
		}
		t[base] = cands
	}
	return t, nil
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("hentaigana: %q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ValidateRatio rejects ratios the variant stage cannot interpret.
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidRatio, ratio)
	}
	return nil
}

// Apply replaces each character that has variants with a uniformly chosen
// one, with probability ratio, independently per character. Characters
// without variants are copied and consume no draws. The output always has
// as many characters as the input.
func Apply(hira string, ratio float64, table Table, src RandomSource) string {
	runes := []rune(hira)
	for i, r := range runes {
		cands := table[r]
		if len(cands) == 0 {
			continue
		}
		if src.Float64() < ratio {
			runes[i] = cands[src.IntN(len(cands))]
		}
	}
	return string(runes)
}
