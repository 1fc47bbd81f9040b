// Package analyze resolves the phonetic reading of pre-substituted text by
// running it through a morphological analyzer.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"kohitsu/kana"
	"kohitsu/model"
)

// Placeholder marks a missing feature value in analyzer output.
const Placeholder = "*"

// Analyzer segments text into tokens. Implementations must be safe for the
// concurrency the caller uses them with.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]model.Token, error)
}

// ResolutionError reports a failed analyzer call.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("analyze: resolve readings: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ResolveReadings analyzes text once and concatenates each token's reading,
// using the surface text when the token has none. The joined result is
// converted from katakana to hiragana in a single pass, so non-katakana
// surfaces (punctuation, Latin, unknown kanji) pass through unchanged.
func ResolveReadings(ctx context.Context, text string, a Analyzer) (string, error) {
	toks, err := a.Analyze(ctx, text)
	if err != nil {
		return "", &ResolutionError{Err: err}
	}
	return kana.ToHiragana(JoinReadings(toks)), nil
}

// JoinReadings concatenates per-token readings without script conversion.
func JoinReadings(toks []model.Token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.Boundary || t.Surface == "" {
			continue
		}
		b.WriteString(Reading(t))
	}
	return b.String()
}

// Reading returns the token's reading, or its surface when the reading is
// absent or the placeholder.
func Reading(t model.Token) string {
	if t.Reading == "" || t.Reading == Placeholder {
		return t.Surface
	}
	return t.Reading
}
