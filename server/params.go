package server

import (
	"kohitsu/model"
)

// ConvertParam is the body of POST /v1/convert. Ratio defaults to the
// configured default ratio when omitted.
type ConvertParam struct {
	Text  string   `json:"text" binding:"required"`
	Ratio *float64 `json:"ratio" binding:"omitempty,gte=0.2,lte=0.8,ratio_step"`
	Seed  *uint64  `json:"seed"`
}

// ConvertBatchParam is the body of POST /v1/convert/batch.
type ConvertBatchParam struct {
	Items []ConvertParam `json:"items" binding:"required,min=1,max=100,dive"`
}

type EmptyObj struct{}

type ErrRes struct {
	Data   EmptyObj `json:"data"`
	Errors []Err    `json:"errors"`
}

type ConvertResData struct {
	ID           string           `json:"id"`
	Original     string           `json:"original"`
	Hiragana     string           `json:"hiragana"`
	VariantMixed string           `json:"variant_mixed"`
	Ratio        float64          `json:"ratio"`
	Report       string           `json:"report"`
	LexiconHits  []model.LexEntry `json:"lexicon_hits"`
}

func (d *ConvertResData) Of(res *model.ConversionResult, report string) *ConvertResData {
	hits := res.LexiconHits
	if hits == nil {
		hits = []model.LexEntry{}
	}
	*d = ConvertResData{
		ID:           res.ID,
		Original:     res.Original,
		Hiragana:     res.Hiragana,
		VariantMixed: res.VariantMixed,
		Ratio:        res.Ratio,
		Report:       report,
		LexiconHits:  hits,
	}
	return d
}

type ConvertRes struct {
	Data   ConvertResData `json:"data"`
	Errors []Err          `json:"errors"`
}

type ConvertBatchRes struct {
	Data   []ConvertResData `json:"data"`
	Errors []Err            `json:"errors"`
}

type VariantResData struct {
	Base     string   `json:"base"`
	Variants []string `json:"variants"`
}

type VariantsRes struct {
	Data   []VariantResData `json:"data"`
	Errors []Err            `json:"errors"`
}
