package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"kohitsu/hentaigana"
	"kohitsu/ingest"
)

func TestRequestsUsesDefaultRatioWhenUnset(t *testing.T) {
	o, err := parseArgs("convert", []string{"-t", "山"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	reqs, err := o.requests(0.5)
	if err != nil {
		t.Fatalf("requests: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Ratio != 0.5 || reqs[0].Seed != nil {
		t.Errorf("got %+v, want one request at ratio 0.5 without seed", reqs)
	}
}

func TestRequestsKeepsExplicitRatio(t *testing.T) {
	for _, tt := range []struct {
		arg  string
		want float64
	}{
		{"0", 0},
		{"0.3", 0.3},
		{"1", 1},
	} {
		o, err := parseArgs("convert", []string{"-t", "山", "-r", tt.arg}, io.Discard)
		if err != nil {
			t.Fatalf("parseArgs(-r %s): %v", tt.arg, err)
		}
		reqs, err := o.requests(0.5)
		if err != nil {
			t.Fatalf("requests(-r %s): %v", tt.arg, err)
		}
		if reqs[0].Ratio != tt.want {
			t.Errorf("-r %s: ratio = %v, want %v", tt.arg, reqs[0].Ratio, tt.want)
		}
	}
}

func TestRequestsRejectsOutOfRangeRatio(t *testing.T) {
	for _, arg := range []string{"-0.3", "-1", "1.7"} {
		o, err := parseArgs("convert", []string{"-t", "山", "-r", arg}, io.Discard)
		if err != nil {
			t.Fatalf("parseArgs(-r %s): %v", arg, err)
		}
		if _, err := o.requests(0.5); !errors.Is(err, hentaigana.ErrInvalidRatio) {
			t.Errorf("-r %s: err = %v, want ErrInvalidRatio", arg, err)
		}
	}
}

func TestRequestsSeed(t *testing.T) {
	o, err := parseArgs("convert", []string{"-t", "山", "-s", "0"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	reqs, err := o.requests(0.5)
	if err != nil {
		t.Fatalf("requests: %v", err)
	}
	if reqs[0].Seed == nil || *reqs[0].Seed != 0 {
		t.Errorf("seed = %v, want explicit 0", reqs[0].Seed)
	}

	if _, err := parseArgs("convert", []string{"-t", "山", "-s", "-4"}, io.Discard); err == nil {
		t.Error("expected negative seed to be rejected")
	}
}

func TestRequestsBlankText(t *testing.T) {
	o, err := parseArgs("convert", nil, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if _, err := o.requests(0.5); !errors.Is(err, ingest.ErrEmptyText) {
		t.Errorf("err = %v, want ErrEmptyText", err)
	}
}

func TestRequestsBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poems.txt")
	doc := "# hyakunin isshu\n天の原\n\n山川に\r\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := parseArgs("batch", []string{"-f", path, "-r", "0.2", "-s", "9"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	reqs, err := o.requests(0.5)
	if err != nil {
		t.Fatalf("requests: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if reqs[0].Text != "天の原" || reqs[1].Text != "山川に" {
		t.Errorf("texts = %q, %q", reqs[0].Text, reqs[1].Text)
	}
	for _, r := range reqs {
		if r.Ratio != 0.2 || r.Seed == nil || *r.Seed != 9 {
			t.Errorf("request %+v does not carry -r/-s", r)
		}
	}
	if reqs[0].ID == reqs[1].ID {
		t.Error("batch requests share an id")
	}
}

func TestRequestsBatchErrors(t *testing.T) {
	o, err := parseArgs("batch", nil, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if _, err := o.requests(0.5); !errors.Is(err, errUsage) {
		t.Errorf("missing -f: err = %v, want errUsage", err)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("# nothing\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o, _ = parseArgs("batch", []string{"-f", empty}, io.Discard)
	if _, err := o.requests(0.5); err == nil {
		t.Error("expected error for a file without poems")
	}
}

func TestParseArgsRejects(t *testing.T) {
	if _, err := parseArgs("render", nil, io.Discard); !errors.Is(err, errUsage) {
		t.Errorf("unknown command: err = %v", err)
	}
	if _, err := parseArgs("serve", []string{"-r", "0.5"}, io.Discard); err == nil {
		t.Error("serve must not accept -r")
	}
	if _, err := parseArgs("convert", []string{"-t", "山", "extra"}, io.Discard); !errors.Is(err, errUsage) {
		t.Errorf("stray argument: err = %v", err)
	}
}
