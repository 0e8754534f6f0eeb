package slug

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Grand Marshall", "grand-marshall"},
		{"  Brigadier General 4 ", "brigadier-general-4"},
		{"brigadier---general--4", "brigadier-general-4"},
		{"Pokémon Épée", "pokemon-epee"},
		{"AK-47 (Gold)", "ak-47-gold"},
		{"---", ""},
		{"Señor_Sniper!!", "senor-sniper"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Grand Marshall", "Ünïcödé  Rank", "rank_42.jpg.jpeg", "--a--b--", "Capture The Flag"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeEquivalentForms(t *testing.T) {
	if Normalize("Brigadier General 4") != Normalize("brigadier---general--4") {
		t.Error("expected equivalent forms to normalize identically")
	}
}

func TestTokens(t *testing.T) {
	if got := Tokens("Rank 42"); !reflect.DeepEqual(got, []string{"rank", "42"}) {
		t.Errorf("Tokens = %v", got)
	}
	if got := Tokens("!!"); got != nil {
		t.Errorf("expected nil tokens, got %v", got)
	}
}

func TestID(t *testing.T) {
	if got := ID("rank", "Grand Marshall"); got != "rank-grand-marshall" {
		t.Errorf("ID = %q", got)
	}
	if ID("weapon", "AK 47") != ID("weapon", "ak-47") {
		t.Error("expected same id for equivalent names")
	}
}
