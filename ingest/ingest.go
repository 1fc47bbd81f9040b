// Package ingest validates raw poem input and turns it into a
// ConversionRequest.
package ingest

import (
	"errors"
	"strings"

	"kohitsu/hentaigana"
	"kohitsu/model"

	"github.com/google/uuid"
)

// ErrEmptyText is returned when the poem text is blank.
var ErrEmptyText = errors.New("ingest: empty text")

// NewRequest validates text and ratio and assigns a request ID. The text is
// kept as given; only a blank text is rejected.
func NewRequest(text string, ratio float64, seed *uint64) (model.ConversionRequest, error) {
	if strings.TrimSpace(text) == "" {
		return model.ConversionRequest{}, ErrEmptyText
	}
	if err := hentaigana.ValidateRatio(ratio); err != nil {
		return model.ConversionRequest{}, err
	}
	return model.ConversionRequest{
		ID:    uuid.NewString(),
		Text:  text,
		Ratio: ratio,
		Seed:  seed,
	}, nil
}

// Lines splits a multi-poem document into one request text per non-blank
// line, trimming surrounding whitespace.
func Lines(doc string) []string {
	var out []string
	for _, l := range strings.Split(doc, "\n") {
		l = strings.TrimSpace(strings.TrimSuffix(l, "\r"))
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		out = append(out, l)
	}
	return out
}
