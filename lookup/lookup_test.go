package lookup

import (
	"testing"

	"kohitsu/dictionary"
	"kohitsu/model"
)

func store(entries ...string) *dictionary.Store {
	var es []model.LexEntry
	for i := 0; i+1 < len(entries); i += 2 {
		es = append(es, model.LexEntry{Key: entries[i], Reading: entries[i+1]})
	}
	return dictionary.NewStore(es)
}

func TestPresubstituteLongestFirst(t *testing.T) {
	// The short key is inserted first; ordering must still prefer the phrase.
	s := store("天", "てん", "天の原", "あまのはら")
	got, hits := Presubstitute("天の原ふりさけ見れば", s, Rescan)
	if want := "アマノハラふりさけ見れば"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(hits) != 1 || hits[0].Key != "天の原" {
		t.Errorf("hits = %v", hits)
	}
}

func TestPresubstituteShortKeyStillAppliesElsewhere(t *testing.T) {
	s := store("天", "あま", "天の原", "あまのはら")
	got, hits := Presubstitute("天の原 天つ風", s, Rescan)
	if want := "アマノハラ アマつ風"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(hits) != 2 {
		t.Errorf("hits = %v", hits)
	}
}

func TestPresubstituteReplacesAllOccurrences(t *testing.T) {
	s := store("山", "やま")
	got, _ := Presubstitute("山また山", s, Rescan)
	if want := "ヤマまたヤマ"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPresubstituteKatakanaReadingKept(t *testing.T) {
	s := store("川", "カワ")
	got, _ := Presubstitute("川", s, Rescan)
	if got != "カワ" {
		t.Errorf("got %q", got)
	}
}

func TestPresubstituteNoKeysIsIdentity(t *testing.T) {
	s := store("天の原", "あまのはら", "月", "つき")
	in := "この道や行く人なしに秋の暮"
	for _, p := range []Policy{Rescan, Freeze} {
		got, hits := Presubstitute(in, s, p)
		if got != in || hits != nil {
			t.Errorf("%v: got %q hits %v", p, got, hits)
		}
	}
}

func TestPresubstituteEmptyStore(t *testing.T) {
	in := "春過ぎて"
	if got, _ := Presubstitute(in, dictionary.Empty(), Rescan); got != in {
		t.Errorf("got %q", got)
	}
}

func TestPolicyRescanVersusFreeze(t *testing.T) {
	// The reading of 白妙 contains ヘ, which is also a (contrived) key.
	s := store("白妙", "しろたへの", "ヘ", "え")
	rescan, _ := Presubstitute("白妙ヘ", s, Rescan)
	if want := "シロタエノエ"; rescan != want {
		t.Errorf("rescan got %q, want %q", rescan, want)
	}
	frozen, hits := Presubstitute("白妙ヘ", s, Freeze)
	if want := "シロタヘノエ"; frozen != want {
		t.Errorf("freeze got %q, want %q", frozen, want)
	}
	if len(hits) != 2 {
		t.Errorf("freeze hits = %v", hits)
	}
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{"": Rescan, "rescan": Rescan, "FREEZE": Freeze}
	for in, want := range cases {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("greedy"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
