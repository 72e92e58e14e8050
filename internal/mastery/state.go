package mastery

// Level is the coarse mastery band shown next to an item.
type Level string

const (
	LevelNew      Level = "new"
	LevelLearning Level = "learning"
	LevelMastered Level = "mastered"
)

// MasteredThreshold is the score from which an item counts as mastered.
const MasteredThreshold = 80

// Increments applied by the training games.
const (
	RaceIncrement      = 5
	FlashcardIncrement = 10
)

// LevelFor maps a score to its level.
func LevelFor(score int) Level {
	switch {
	case score <= MinScore:
		return LevelNew
	case score >= MasteredThreshold:
		return LevelMastered
	default:
		return LevelLearning
	}
}
