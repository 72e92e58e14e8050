package mastery

import "fmt"

// Badge returns the short marker rendered beside an item in word lists.
func Badge(score int) string {
	switch LevelFor(score) {
	case LevelMastered:
		return "✔"
	case LevelLearning:
		return "◐"
	default:
		return "·"
	}
}

// Label returns a human-readable description like "Learning (40%)".
func Label(score int) string {
	score = Clamp(score)
	switch LevelFor(score) {
	case LevelMastered:
		return fmt.Sprintf("Mastered (%d%%)", score)
	case LevelLearning:
		return fmt.Sprintf("Learning (%d%%)", score)
	default:
		return "New"
	}
}
