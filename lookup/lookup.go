// Package lookup replaces classical words found in the lexicon with their
// readings before the text reaches the morphological analyzer.
package lookup

import (
	"fmt"
	"strings"

	"kohitsu/dictionary"
	"kohitsu/kana"
	"kohitsu/model"
)

// Policy decides whether substituted readings may be matched again by
// shorter lexicon keys.
type Policy int

const (
	// Rescan replaces each key across the whole, progressively rewritten
	// text. A reading that contains a shorter key is rewritten again.
	Rescan Policy = iota
	// Freeze never matches inside a span produced by an earlier key.
	Freeze
)

func (p Policy) String() string {
	switch p {
	case Rescan:
		return "rescan"
	case Freeze:
		return "freeze"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a configuration value to a Policy. The empty string
// selects Rescan.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rescan":
		return Rescan, nil
	case "freeze":
		return Freeze, nil
	}
	return Rescan, fmt.Errorf("lookup: unknown policy %q", s)
}

// Presubstitute walks the lexicon longest key first and replaces every
// non-overlapping occurrence of each key with its reading in katakana, the
// analyzer's native script. It returns the rewritten text and the entries
// that matched, in match order.
func Presubstitute(text string, store *dictionary.Store, policy Policy) (string, []model.LexEntry) {
	if store.Len() == 0 || text == "" {
		return text, nil
	}
	if policy == Freeze {
		return presubstituteFrozen(text, store)
	}

	var hits []model.LexEntry
	for _, key := range store.OrderedKeys() {
		if !strings.Contains(text, key) {
			continue
		}
		reading, _ := store.Lookup(key)
		hits = append(hits, model.LexEntry{Key: key, Reading: reading})
		text = strings.ReplaceAll(text, key, kana.ToKatakana(reading))
	}
	return text, hits
}

type segment struct {
	text   string
	frozen bool
}

func presubstituteFrozen(text string, store *dictionary.Store) (string, []model.LexEntry) {
	segs := []segment{{text: text}}
	var hits []model.LexEntry
	for _, key := range store.OrderedKeys() {
		var reading, kata string
		next := make([]segment, 0, len(segs))
		for _, sg := range segs {
			if sg.frozen || !strings.Contains(sg.text, key) {
				next = append(next, sg)
				continue
			}
			if kata == "" {
				reading, _ = store.Lookup(key)
				kata = kana.ToKatakana(reading)
				hits = append(hits, model.LexEntry{Key: key, Reading: reading})
			}
			for i, part := range strings.Split(sg.text, key) {
				if i > 0 {
					next = append(next, segment{text: kata, frozen: true})
				}
				if part != "" {
					next = append(next, segment{text: part})
				}
			}
		}
		segs = next
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, sg := range segs {
		b.WriteString(sg.text)
	}
	return b.String(), hits
}
