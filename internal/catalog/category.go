package catalog

import "errors"

// ErrUnknownCategory is returned for a category outside AllCategories.
var ErrUnknownCategory = errors.New("unknown category")

// Category is a subject area tracked with its own rolling score.
type Category string

const (
	CategoryReading    Category = "reading"
	CategoryVocabulary Category = "vocabulary"
	CategoryGrammar    Category = "grammar"
	CategoryMath       Category = "math"
	CategoryMock       Category = "mock"
	CategorySpelling   Category = "spelling"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryReading,
		CategoryVocabulary,
		CategoryGrammar,
		CategoryMath,
		CategoryMock,
		CategorySpelling,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable name for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryReading:
		return "Reading Comprehension"
	case CategoryVocabulary:
		return "Vocabulary"
	case CategoryGrammar:
		return "Grammar & Writing"
	case CategoryMath:
		return "Mathematics"
	case CategoryMock:
		return "Full Mock Test"
	case CategorySpelling:
		return "Spelling"
	default:
		return string(c)
	}
}

// QuestionCount returns how many questions a practice test in this category serves.
func (c Category) QuestionCount() int {
	if c == CategoryMock {
		return 20
	}
	return 10
}

// ParseCategory resolves a category from its identifier or display name.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories() {
		if s == string(c) || s == c.DisplayName() {
			return c, true
		}
	}
	return "", false
}
