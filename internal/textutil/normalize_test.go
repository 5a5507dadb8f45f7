package textutil

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"É Têstê", "e teste"},
		{"  Horário:  ", "horario"},
		{"José da Silva-Santos", "jose da silva santos"},
		{"", ""},
		{"ÁÉÍÓÚ çãõ", "aeiou cao"},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"É Têstê", "Prof. Dr. João Ângelo!", "terça-feira 08:00"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeCaseAccentInsensitive(t *testing.T) {
	if Normalize("É Têstê") != Normalize("e teste") {
		t.Error("expected accent/case variants to normalize equal")
	}
}

func TestTokens(t *testing.T) {
	stop := map[string]bool{"de": true, "prof": true}
	got := Tokens("prof maria de souza", 2, stop)
	if len(got) != 2 || got[0] != "maria" || got[1] != "souza" {
		t.Errorf("Tokens = %v, want [maria souza]", got)
	}
}

func TestRatio(t *testing.T) {
	if Ratio("abc", "abc") != 1 {
		t.Error("identical strings must have ratio 1")
	}
	if Ratio("", "") != 1 {
		t.Error("empty strings must have ratio 1")
	}
	if r := Ratio("maria", "mario"); r < 0.7 || r >= 1 {
		t.Errorf("Ratio(maria, mario) = %v, want in [0.7, 1)", r)
	}
}

func TestCloseMatches(t *testing.T) {
	got := CloseMatches("silva", []string{"silvia", "souza", "silva"}, 2, 0.7)
	if len(got) == 0 || got[0] != "silva" {
		t.Errorf("CloseMatches = %v, want silva first", got)
	}
}

func TestMatchOption(t *testing.T) {
	options := []string{"Maria da Silva Santos", "João Pedro Alencar"}

	if got := MatchOption("maria da silva santos", options); got != options[0] {
		t.Errorf("casefold match = %q", got)
	}
	if got := MatchOption("João", options); got != options[1] {
		t.Errorf("substring match = %q", got)
	}
	if got := MatchOption("joao pedro alencar", options); got != options[1] {
		t.Errorf("normalized match = %q", got)
	}
	if got := MatchOption("zzz", options); got != "" {
		t.Errorf("no-match should be empty, got %q", got)
	}
	if got := MatchOption("", options); got != "" {
		t.Error("empty input should not match")
	}
}
