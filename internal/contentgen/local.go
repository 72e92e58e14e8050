package contentgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/session"
)

const localOptions = 4

// WordSource builds vocabulary and spelling questions from the word pool
// without a network call. Other categories are unsupported.
type WordSource struct {
	mu   sync.Mutex
	pool func() []catalog.Item
	rng  *rand.Rand
}

// NewWordSource reads the pool through fn on every request so newly
// imported words are picked up.
func NewWordSource(fn func() []catalog.Item, rng *rand.Rand) *WordSource {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &WordSource{pool: fn, rng: rng}
}

func (s *WordSource) Questions(_ context.Context, category catalog.Category, count int) ([]catalog.Question, error) {
	if count <= 0 {
		count = category.QuestionCount()
	}
	pool := s.pool()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch category {
	case catalog.CategoryVocabulary:
		return s.definitionQuestions(pool, count), nil
	case catalog.CategorySpelling:
		return s.spellingQuestions(pool, count), nil
	default:
		return nil, fmt.Errorf("%s: %w", category, ErrUnsupportedCategory)
	}
}

func (s *WordSource) definitionQuestions(pool []catalog.Item, count int) []catalog.Question {
	if len(pool) < localOptions {
		return nil
	}
	picked := session.PickBatch(s.rng, pool, count)
	qs := make([]catalog.Question, 0, len(picked))
	for _, it := range picked {
		options := []string{it.Prompt}
		for _, d := range session.Shuffle(s.rng, pool) {
			if len(options) == localOptions {
				break
			}
			if d.Key != it.Key && !containsFold(options, d.Prompt) {
				options = append(options, d.Prompt)
			}
		}
		if len(options) < 2 {
			continue
		}
		opts, correct := s.shuffleOptions(options)
		explanation := fmt.Sprintf("%s means %q.", it.Answer, it.Prompt)
		if it.Aux != "" {
			explanation += " Example: " + it.Aux
		}
		qs = append(qs, catalog.Question{
			ID:           "vocab:" + it.Key,
			Category:     catalog.CategoryVocabulary,
			Prompt:       fmt.Sprintf("Which is the best definition of %q?", it.Answer),
			Options:      opts,
			CorrectIndex: correct,
			Explanation:  explanation,
		})
	}
	return qs
}

func (s *WordSource) spellingQuestions(pool []catalog.Item, count int) []catalog.Question {
	var candidates []catalog.Item
	for _, it := range pool {
		// Multi-word entries and very short words make poor spelling items.
		if len(it.Answer) >= 5 && !strings.ContainsAny(it.Answer, " -") {
			candidates = append(candidates, it)
		}
	}
	picked := session.PickBatch(s.rng, candidates, count)
	qs := make([]catalog.Question, 0, len(picked))
	for _, it := range picked {
		word := strings.ToLower(it.Answer)
		options := append([]string{word}, Misspellings(word, localOptions-1)...)
		if len(options) < 2 {
			continue
		}
		opts, correct := s.shuffleOptions(options)
		qs = append(qs, catalog.Question{
			ID:           "spell:" + it.Key,
			Category:     catalog.CategorySpelling,
			Prompt:       fmt.Sprintf("Which spelling is correct? (%s)", it.Prompt),
			Options:      opts,
			CorrectIndex: correct,
			Explanation:  fmt.Sprintf("The correct spelling is %q.", word),
		})
	}
	return qs
}

// shuffleOptions shuffles options whose first entry is correct and returns
// the new index of that entry.
func (s *WordSource) shuffleOptions(options []string) ([]string, int) {
	order := session.Shuffle(s.rng, indexes(len(options)))
	out := make([]string, len(options))
	correct := 0
	for i, from := range order {
		out[i] = options[from]
		if from == 0 {
			correct = i
		}
	}
	return out, correct
}

// Misspellings returns up to n distinct plausible misspellings of word:
// adjacent swaps, doubled or dropped letters and common vowel confusions.
func Misspellings(word string, n int) []string {
	seen := map[string]bool{word: true}
	var out []string
	add := func(s string) bool {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
		return len(out) >= n
	}

	r := []rune(word)
	vowelSwap := map[rune]rune{'a': 'e', 'e': 'i', 'i': 'e', 'o': 'u', 'u': 'o'}
	for i := len(r) - 1; i > 0; i-- {
		if v, ok := vowelSwap[r[i]]; ok {
			c := append([]rune(nil), r...)
			c[i] = v
			if add(string(c)) {
				return out
			}
			break
		}
	}
	for i := 1; i < len(r); i++ {
		if r[i] == r[i-1] {
			if add(string(r[:i]) + string(r[i+1:])) {
				return out
			}
		}
	}
	for i := len(r) / 2; i < len(r)-1; i++ {
		if r[i] != r[i+1] {
			c := append([]rune(nil), r...)
			c[i], c[i+1] = c[i+1], c[i]
			if add(string(c)) {
				return out
			}
			break
		}
	}
	for i := 1; i < len(r)-1; i++ {
		if !strings.ContainsRune("aeiou", r[i]) {
			if add(string(r[:i+1]) + string(r[i:])) {
				return out
			}
		}
	}
	return out
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
