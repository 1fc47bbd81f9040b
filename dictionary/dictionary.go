// Package dictionary holds the classical-word lexicon (kogo words and their
// readings) used to pre-resolve readings before morphological analysis.
package dictionary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"kohitsu/model"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Supported source encodings.
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// Store is an immutable lexicon. It is safe for concurrent readers.
type Store struct {
	readings map[string]string
	keys     []string // longest first
}

type options struct {
	encoding string
	logger   *zap.Logger
}

// Option configures Load and LoadReader.
type Option func(*options)

// WithEncoding sets the source encoding (EncodingUTF8 or EncodingShiftJIS).
func WithEncoding(enc string) Option {
	return func(o *options) { o.encoding = enc }
}

// WithLogger sets the logger used to report skipped rows and missing files.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{encoding: EncodingUTF8, logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// NewStore builds a store from entries in insertion order. Entries with an
// empty key or reading are ignored; a repeated key keeps its first position
// and takes the later reading.
func NewStore(entries []model.LexEntry) *Store {
	s := &Store{readings: make(map[string]string, len(entries))}
	var order []string
	for _, e := range entries {
		key := Normalize(strings.TrimSpace(e.Key))
		reading := Normalize(strings.TrimSpace(e.Reading))
		if key == "" || reading == "" {
			continue
		}
		if _, ok := s.readings[key]; !ok {
			order = append(order, key)
		}
		s.readings[key] = reading
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})
	s.keys = order
	return s
}

// Normalize composes s to NFC, except that CJK compatibility ideographs are
// kept as written; NFC would swap them for their unified code points.
func Normalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	start := 0
	for i, r := range s {
		if !isCompatIdeograph(r) {
			continue
		}
		b.WriteString(norm.NFC.String(s[start:i]))
		b.WriteRune(r)
		start = i + utf8.RuneLen(r)
	}
	b.WriteString(norm.NFC.String(s[start:]))
	return b.String()
}

func isCompatIdeograph(r rune) bool {
	return (r >= 0xF900 && r <= 0xFAFF) || (r >= 0x2F800 && r <= 0x2FA1F)
}

// Empty returns a store with no entries.
func Empty() *Store {
	return NewStore(nil)
}

// Load reads a lexicon CSV file. A missing file is not an error: a warning is
// logged and an empty store is returned.
func Load(path string, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			o.logger.Warn("lexicon file not found; continuing without lexicon substitution", zap.String("path", path))
			return Empty(), nil
		}
		return nil, fmt.Errorf("dictionary: open %q: %w", path, err)
	}
	defer f.Close()

	s, err := LoadReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %q: %w", path, err)
	}
	o.logger.Info("lexicon loaded", zap.String("path", path), zap.Int("entries", s.Len()))
	return s, nil
}

// LoadReader parses lexicon rows from r. The first row is a header and is
// always skipped. Column 1 is the classical word, column 2 its reading; any
// further columns are ignored. Malformed rows are skipped individually.
func LoadReader(r io.Reader, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	switch strings.ToLower(o.encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingShiftJIS, "sjis", "shift-jis":
		r = transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported encoding %q", o.encoding)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var entries []model.LexEntry
	row := 0
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				o.logger.Debug("skipping malformed lexicon row", zap.Int("row", row), zap.Error(err))
				skipped++
				continue
			}
			return nil, err
		}
		if row == 1 {
			continue
		}
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" || strings.TrimSpace(rec[1]) == "" {
			o.logger.Debug("skipping incomplete lexicon row", zap.Int("row", row))
			skipped++
			continue
		}
		entries = append(entries, model.LexEntry{Key: rec[0], Reading: rec[1]})
	}
	if skipped > 0 {
		o.logger.Warn("lexicon rows skipped", zap.Int("skipped", skipped))
	}
	return NewStore(entries), nil
}

// Lookup returns the reading registered for key.
func (s *Store) Lookup(key string) (string, bool) {
	r, ok := s.readings[key]
	return r, ok
}

// OrderedKeys returns the keys sorted by descending length, ties in
// insertion order.
func (s *Store) OrderedKeys() []string {
	return slices.Clone(s.keys)
}

// Entries returns all entries in OrderedKeys order.
func (s *Store) Entries() []model.LexEntry {
	out := make([]model.LexEntry, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, model.LexEntry{Key: k, Reading: s.readings[k]})
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
