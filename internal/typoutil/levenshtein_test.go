package typoutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "Haus", 4},
		{"b empty", "Haus", "", 4},
		{"identical", "das Haus", "das Haus", 0},
		{"article substitution", "die Haus", "das Haus", 2},
		{"insertion", "mein Haus", "meine Haus", 1},
		{"deletion", "kleines", "kleins", 1},
		{"umlaut counts as one rune", "Häuser", "Hauser", 1},
		{"order matters reverse", "Hauses", "Haus", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LevenshteinDistance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRankBySimilarity(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		target     string
		want       []string
	}{
		{
			name:       "closest first",
			candidates: []string{"ich bin", "du bist", "ich bist"},
			target:     "ich bist",
			want:       []string{"ich bist", "ich bin", "du bist"},
		},
		{
			name:       "ties keep input order",
			candidates: []string{"er ist", "es ist", "wir sind"},
			target:     "sie ist",
			want:       []string{"er ist", "es ist", "wir sind"},
		},
		{
			name:       "empty input",
			candidates: nil,
			target:     "x",
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RankBySimilarity(tt.candidates, tt.target))
		})
	}
}

func TestCasingHelpers(t *testing.T) {
	assert.Equal(t, "Kleines", UppercaseFirst("kleines"))
	assert.Equal(t, "Über", UppercaseFirst("über"))
	assert.Equal(t, "mail", LowercaseFirst("Mail"))
	assert.Equal(t, "", UppercaseFirst(""))
	assert.Equal(t, "straße", Lower("STRAßE"))
	assert.True(t, StartsWithUppercase("Ämter"))
	assert.False(t, StartsWithUppercase("ämter"))
	assert.True(t, StartsWithLowercase("über"))
	assert.True(t, HasPrefixFold("Meinem", "m"))
	assert.False(t, HasPrefixFold("deinem", "m"))
	assert.Equal(t, "Hä", Normalize("Hä"))
}
