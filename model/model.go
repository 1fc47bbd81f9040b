package model

// Token represents a token / morpheme produced by the morphological analyzer.
type Token struct {
	Surface  string   `json:"surface"`
	Reading  string   `json:"reading,omitempty"`
	POS      string   `json:"pos,omitempty"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Features []string `json:"features,omitempty"`
	// Boundary marks the sentence start/end sentinels (BOS/EOS).
	Boundary bool `json:"boundary,omitempty"`
}

// LexEntry is one classical word and its reading from the lexicon.
type LexEntry struct {
	Key     string `json:"key"`
	Reading string `json:"reading"`
}

// ConversionRequest is the input of one pipeline run.
type ConversionRequest struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Ratio float64 `json:"ratio"`
	// Seed makes variant selection reproducible when set.
	Seed *uint64 `json:"seed,omitempty"`
}

// ConversionResult is the output of one pipeline run.
type ConversionResult struct {
	ID           string     `json:"id"`
	Original     string     `json:"original"`
	Hiragana     string     `json:"hiragana"`
	VariantMixed string     `json:"variant_mixed"`
	Ratio        float64    `json:"ratio"`
	LexiconHits  []LexEntry `json:"lexicon_hits,omitempty"`
}
