package kana

import "testing"

func TestToHiragana(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ヤマ", "やま"},
		{"アマノハラ", "あまのはら"},
		{"ァン", "ぁん"},
		{"山ヤマ、", "山やま、"},
		{"ヴー", "ヴー"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ToHiragana(c.in); got != c.want {
			t.Errorf("ToHiragana(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToKatakana(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"あまのはら", "アマノハラ"},
		{"ヤマ", "ヤマ"},
		{"天の原", "天ノ原"},
		{"。", "。"},
	}
	for _, c := range cases {
		if got := ToKatakana(c.in); got != c.want {
			t.Errorf("ToKatakana(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRoundTripOverWindows(t *testing.T) {
	var kata, hira []rune
	for r := rune(katakanaFirst); r <= katakanaLast; r++ {
		kata = append(kata, r)
	}
	for r := rune(hiraganaFirst); r <= hiraganaLast; r++ {
		hira = append(hira, r)
	}
	if got := ToKatakana(ToHiragana(string(kata))); got != string(kata) {
		t.Errorf("katakana round trip mismatch: %q", got)
	}
	if got := ToHiragana(ToKatakana(string(hira))); got != string(hira) {
		t.Errorf("hiragana round trip mismatch: %q", got)
	}
}
