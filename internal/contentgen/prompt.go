package contentgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/acedrill/internal/catalog"
)

const systemPrompt = `You write practice questions for a competitive high school admissions exam taken by strong 8th grade students.

Rules:
- Every question is multiple choice with exactly 4 options and exactly one correct option.
- Distractors should reflect real mistakes students make, not obviously wrong filler.
- Reading questions include a passage of 300 to 400 words; several questions may share one passage.
- Vocabulary questions use advanced academic words.
- Spelling questions ask which option is spelled correctly, or which word in a sentence is misspelled.
- Math questions test multi-step reasoning, not arithmetic speed. Use plain ASCII for math.
- Every explanation walks through the reasoning, not just the answer.
- Do not repeat any question from the "avoid" list.`

// mockMix is the section breakdown of a full mock test.
var mockMix = []struct {
	category catalog.Category
	share    int
}{
	{catalog.CategoryReading, 5},
	{catalog.CategoryGrammar, 5},
	{catalog.CategorySpelling, 3},
	{catalog.CategoryMath, 7},
}

func buildUserMessage(category catalog.Category, count int, avoid []string, maxAvoid int) string {
	var b strings.Builder

	if category == catalog.CategoryMock {
		fmt.Fprintf(&b, "Generate a %d-question mock test with this section mix:\n", count)
		for _, s := range scaleMix(count) {
			fmt.Fprintf(&b, "- %d %s\n", s.n, s.category)
		}
	} else {
		fmt.Fprintf(&b, "Generate %d difficult %s questions.\n", count, category)
		fmt.Fprintf(&b, "Set category to %q on every question.\n", category)
	}

	b.WriteString("\nAvoid:\n")
	b.WriteString(numberedList(avoid, maxAvoid))
	return b.String()
}

type mixPart struct {
	category catalog.Category
	n        int
}

// scaleMix scales the 20-question mock mix to count, giving any remainder
// to math.
func scaleMix(count int) []mixPart {
	total := 0
	for _, m := range mockMix {
		total += m.share
	}
	parts := make([]mixPart, 0, len(mockMix))
	used := 0
	for _, m := range mockMix {
		n := m.share * count / total
		parts = append(parts, mixPart{category: m.category, n: n})
		used += n
	}
	parts[len(parts)-1].n += count - used
	return parts
}

// numberedList keeps the last max entries. It returns "None" when empty.
func numberedList(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, s := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
