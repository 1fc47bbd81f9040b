// Package tokenize adapts the kagome morphological analyzer to the token
// shape used by the reading resolution stage.
package tokenize

import (
	"context"
	"fmt"
	"strings"

	"kohitsu/model"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// readingField is the 0-based position of the reading in an IPADIC/MeCab
// feature record.
const readingField = 7

// Tokenizer wraps a kagome tokenizer. Kagome tokenizers are reentrant, so a
// single Tokenizer can serve concurrent requests.
type Tokenizer struct {
	kg   *tokenizer.Tokenizer
	mode tokenizer.TokenizeMode
	name string
}

type options struct {
	dictName string
	userDict string
	mode     string
}

// Option configures New.
type Option func(*options)

// WithDict selects the system dictionary: "ipa" (default) or "uni".
func WithDict(name string) Option {
	return func(o *options) { o.dictName = name }
}

// WithUserDict loads a kagome user dictionary file.
func WithUserDict(path string) Option {
	return func(o *options) { o.userDict = path }
}

// WithMode selects the segmentation mode: "normal" (default), "search" or
// "extended".
func WithMode(mode string) Option {
	return func(o *options) { o.mode = mode }
}

// New builds the analyzer. Errors here are fatal to the caller: no
// conversion can run without an analyzer.
func New(opts ...Option) (*Tokenizer, error) {
	o := options{dictName: "ipa", mode: "normal"}
	for _, fn := range opts {
		fn(&o)
	}

	var d *dict.Dict
	switch strings.ToLower(o.dictName) {
	case "", "ipa":
		d = ipa.Dict()
	case "uni":
		d = uni.Dict()
	default:
		return nil, fmt.Errorf("tokenize: unknown dictionary %q", o.dictName)
	}

	mode, err := parseMode(o.mode)
	if err != nil {
		return nil, err
	}

	var topts []tokenizer.Option
	if o.userDict != "" {
		ud, err := loadUserDict(o.userDict)
		if err != nil {
			return nil, err
		}
		topts = append(topts, tokenizer.UserDict(ud))
	}

	kg, err := tokenizer.New(d, topts...)
	if err != nil {
		return nil, fmt.Errorf("tokenize: init kagome: %w", err)
	}
	return &Tokenizer{kg: kg, mode: mode, name: strings.ToLower(o.dictName)}, nil
}

func loadUserDict(path string) (*dict.UserDict, error) {
	ud, err := dict.NewUserDict(path)
	if err != nil {
		return nil, fmt.Errorf("tokenize: load user dict %q: %w", path, err)
	}
	return ud, nil
}

func parseMode(s string) (tokenizer.TokenizeMode, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return tokenizer.Normal, nil
	case "search":
		return tokenizer.Search, nil
	case "extended":
		return tokenizer.Extended, nil
	}
	return tokenizer.Normal, fmt.Errorf("tokenize: unknown mode %q", s)
}

// DictName reports which system dictionary is in use.
func (t *Tokenizer) DictName() string {
	if t.name == "" {
		return "ipa"
	}
	return t.name
}

// Analyze segments text. BOS/EOS sentinels are returned as boundary tokens.
func (t *Tokenizer) Analyze(ctx context.Context, text string) ([]model.Token, error) {
	if t == nil || t.kg == nil {
		return nil, fmt.Errorf("tokenize: analyzer not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ktoks := t.kg.Analyze(text, t.mode)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return convertKagomeTokens(ktoks), nil
}

func convertKagomeTokens(ktoks []tokenizer.Token) []model.Token {
	out := make([]model.Token, 0, len(ktoks))
	for _, kt := range ktoks {
		if kt.Class == tokenizer.DUMMY {
			out = append(out, model.Token{Surface: kt.Surface, Start: kt.Start, End: kt.End, Boundary: true})
			continue
		}
		reading, ok := kt.Reading()
		if !ok {
			reading = ""
		}
		out = append(out, model.Token{
			Surface:  kt.Surface,
			Reading:  reading,
			POS:      strings.Join(kt.POS(), ","),
			Start:    kt.Start,
			End:      kt.End,
			Features: kt.Features(),
		})
	}
	return out
}

// ParseFeature builds a token from a MeCab-style node: a surface and a
// comma-delimited feature string whose 8th field is the katakana reading.
// A "BOS/EOS" feature marks a boundary token.
func ParseFeature(surface, feature string) model.Token {
	if strings.HasPrefix(feature, "BOS/EOS") {
		return model.Token{Surface: surface, Boundary: true}
	}
	fs := strings.Split(feature, ",")
	tk := model.Token{Surface: surface, Features: fs, POS: fs[0]}
	if len(fs) > readingField {
		tk.Reading = fs[readingField]
	}
	return tk
}
