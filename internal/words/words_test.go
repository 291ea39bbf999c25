package words

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	long := strings.Repeat("x", MaxWordLen)

	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"well formed", "cat | dog", true},
		{"no spaces around separator", "cat|dog", true},
		{"extra inner whitespace", "  polar bear |  grizzly bear ", true},
		{"max length sides", long + "|" + strings.Repeat("y", MaxWordLen), true},
		{"max length multibyte sides", strings.Repeat("ü", MaxWordLen) + "|" + strings.Repeat("ö", MaxWordLen), true},
		{"multibyte side one rune over", strings.Repeat("ü", MaxWordLen+1) + "| dog", false},
		{"no separator", "cat dog", false},
		{"two separators", "cat | dog | fox", false},
		{"empty left", " | dog", false},
		{"empty right", "cat | ", false},
		{"whitespace-only side", "cat |   ", false},
		{"left too long", long + "x | dog", false},
		{"identical sides", "cat | cat", false},
		{"identical ignoring case", "Cat | cAT", false},
		{"empty input", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.input))
		})
	}
}

func TestExtractWords(t *testing.T) {
	pair, ok := ExtractWords("  Polar Bear | Grizzly Bear ")
	require.True(t, ok)
	assert.Equal(t, Pair{MajorityWord: "polar bear", MinorityWord: "grizzly bear"}, pair)

	_, ok = ExtractWords("no separator here")
	assert.False(t, ok)

	_, ok = ExtractWords("same | same")
	assert.False(t, ok)
}

func TestRandomWordsDistinct(t *testing.T) {
	s := NewSelector(WithRand(rand.New(rand.NewSource(1))))
	for i := 0; i < 200; i++ {
		for _, mode := range [][2]bool{{true, true}, {true, false}, {false, false}} {
			pair := s.RandomWords(mode[0], mode[1])
			assert.NotEmpty(t, pair.MajorityWord)
			assert.NotEmpty(t, pair.MinorityWord)
			assert.False(t, strings.EqualFold(pair.MajorityWord, pair.MinorityWord),
				"drew identical words %q", pair)
		}
	}
}

func TestRandomWordsSameCategory(t *testing.T) {
	catalog := Catalog{
		Noun: {
			"metals": {"iron", "copper", "tin"},
			"rivers": {"danube", "rhine", "elbe"},
		},
	}
	s := NewSelector(WithCatalog(catalog), WithRand(rand.New(rand.NewSource(7))))

	inCategory := func(category, word string) bool {
		for _, w := range catalog[Noun][category] {
			if w == word {
				return true
			}
		}
		return false
	}

	for i := 0; i < 100; i++ {
		pair := s.RandomWords(true, true)
		sameMetals := inCategory("metals", pair.MajorityWord) && inCategory("metals", pair.MinorityWord)
		sameRivers := inCategory("rivers", pair.MajorityWord) && inCategory("rivers", pair.MinorityWord)
		assert.True(t, sameMetals || sameRivers, "words crossed categories: %q", pair)
	}
}

func TestRandomWordsSkipsSingleEntryCategories(t *testing.T) {
	catalog := Catalog{
		Noun: {
			"solo": {"lonely"},
			"duo":  {"either", "other"},
		},
	}
	s := NewSelector(WithCatalog(catalog), WithRand(rand.New(rand.NewSource(3))))

	for i := 0; i < 100; i++ {
		pair := s.RandomWords(true, true)
		assert.NotEqual(t, "lonely", pair.MajorityWord)
		assert.NotEqual(t, "lonely", pair.MinorityWord)
	}
}

func TestDefaultCatalogDrawable(t *testing.T) {
	// Every part of speech must hold at least one category with two distinct
	// words, otherwise category sampling cannot terminate.
	for part, categories := range DefaultCatalog {
		drawable := false
		for _, ws := range categories {
			if countDistinct(ws) >= 2 {
				drawable = true
				break
			}
		}
		assert.True(t, drawable, "part %q has no drawable category", part)
	}
}
