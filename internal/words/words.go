package words

import (
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxWordLen is the longest accepted word on either side of a submission,
// in characters.
const MaxWordLen = 64

// Pair is a majority/minority word pairing for one game.
type Pair struct {
	MajorityWord string `json:"majorityWord"`
	MinorityWord string `json:"minorityWord"`
}

func (p Pair) String() string {
	return p.MajorityWord + " | " + p.MinorityWord
}

// Validate reports whether input is a well-formed "Majority Word | Minority Word"
// submission: exactly one separator, both sides 1..MaxWordLen after trimming,
// sides case-insensitively distinct.
func Validate(input string) bool {
	if strings.Count(input, "|") != 1 {
		return false
	}
	left, right, _ := strings.Cut(input, "|")
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)
	if n := utf8.RuneCountInString(left); n == 0 || n > MaxWordLen {
		return false
	}
	if n := utf8.RuneCountInString(right); n == 0 || n > MaxWordLen {
		return false
	}
	return !strings.EqualFold(left, right)
}

// ExtractWords parses a submission into a lowercased Pair. The second return
// value is false when input does not validate; that is an absence, not an error.
func ExtractWords(input string) (Pair, bool) {
	if !Validate(input) {
		return Pair{}, false
	}
	left, right, _ := strings.Cut(input, "|")
	return Pair{
		MajorityWord: strings.ToLower(strings.TrimSpace(left)),
		MinorityWord: strings.ToLower(strings.TrimSpace(right)),
	}, true
}

// PartOfSpeech groups catalog categories.
type PartOfSpeech string

const (
	Noun      PartOfSpeech = "noun"
	Adjective PartOfSpeech = "adjective"
)

// Catalog maps a part of speech to named categories of candidate words.
type Catalog map[PartOfSpeech]map[string][]string

// Selector draws random related word pairs from a catalog.
type Selector struct {
	catalog Catalog
	parts   []PartOfSpeech
	rng     *rand.Rand
}

type Option func(*Selector)

// WithCatalog replaces the default catalog.
func WithCatalog(c Catalog) Option {
	return func(s *Selector) { s.catalog = c }
}

// WithRand fixes the random source, for deterministic draws.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		catalog: DefaultCatalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	for part := range s.catalog {
		s.parts = append(s.parts, part)
	}
	return s
}

// RandomWords generates a case-insensitively distinct pair. With
// matchPartOfSpeech both words share a part of speech; with matchCategory they
// additionally come from the same category. Categories are resampled until one
// with at least two distinct words is found, so the distinct-word draw below
// always terminates.
func (s *Selector) RandomWords(matchPartOfSpeech, matchCategory bool) Pair {
	if !matchPartOfSpeech {
		pool := s.flatten()
		first := pool[s.rng.Intn(len(pool))]
		second := s.drawDistinct(pool, first)
		return Pair{MajorityWord: first, MinorityWord: second}
	}

	part := s.parts[s.rng.Intn(len(s.parts))]
	category := s.sampleCategory(part)
	pool := s.catalog[part][category]
	first := pool[s.rng.Intn(len(pool))]

	if !matchCategory {
		pool = s.catalog[part][s.sampleCategory(part)]
	}
	second := s.drawDistinct(pool, first)
	return Pair{MajorityWord: first, MinorityWord: second}
}

// sampleCategory rejection-samples a category of part until one with at least
// two distinct words comes up. Single-entry categories exist in the catalog
// (health) and would otherwise loop the distinct-word draw forever.
func (s *Selector) sampleCategory(part PartOfSpeech) string {
	categories := s.categoryNames(part)
	for {
		category := categories[s.rng.Intn(len(categories))]
		if countDistinct(s.catalog[part][category]) >= 2 {
			return category
		}
	}
}

func (s *Selector) drawDistinct(pool []string, first string) string {
	for {
		second := pool[s.rng.Intn(len(pool))]
		if !strings.EqualFold(second, first) {
			return second
		}
	}
}

func (s *Selector) categoryNames(part PartOfSpeech) []string {
	names := make([]string, 0, len(s.catalog[part]))
	for name := range s.catalog[part] {
		names = append(names, name)
	}
	return names
}

func (s *Selector) flatten() []string {
	var pool []string
	for _, categories := range s.catalog {
		for _, ws := range categories {
			pool = append(pool, ws...)
		}
	}
	return pool
}

func countDistinct(ws []string) int {
	seen := make(map[string]struct{}, len(ws))
	for _, w := range ws {
		seen[strings.ToLower(w)] = struct{}{}
	}
	return len(seen)
}
