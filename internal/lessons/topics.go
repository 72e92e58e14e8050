package lessons

// Topics are the grammar lessons offered in the picker.
var Topics = []string{
	"Comma Mastery: Essential vs Non-Essential",
	"Semicolons, Colons, and Dashes",
	"Modifier Placement (Dangling/Misplaced)",
	"Subject-Verb Agreement Pitfalls",
	"Parallel Structure in Lists",
	"Active vs Passive Voice Strategies",
	"Pronoun Case and Agreement",
	"Verb Tense Consistency",
	"Sentence Combining and Flow",
	"Transition Words and Rhetorical Purpose",
	"Commonly Confused Words (Academic)",
	"Capitalization and Punctuation Nuance",
}
