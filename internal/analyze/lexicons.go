package analyze

// Keyword lexicons driving difficulty and category votes. Matching is on
// the lowercased question text, whole words only.

var difficultyLexicons = map[string][]string{
	DifficultyEasy: {
		"what", "who", "when", "where", "list", "name", "define",
		"identify", "state", "recall", "select",
	},
	DifficultyMedium: {
		"how", "why", "explain", "describe", "compare", "summarize",
		"classify", "interpret", "outline",
	},
	DifficultyHard: {
		"analyze", "evaluate", "synthesize", "justify", "critique",
		"design", "derive", "prove", "assess", "formulate",
	},
}

var categoryLexicons = map[string][]string{
	CategoryFactual: {
		"what", "who", "when", "where", "which", "name", "list",
		"define", "state", "identify",
	},
	CategoryConceptual: {
		"why", "explain", "concept", "principle", "theory",
		"understand", "relate", "interpret",
	},
	CategoryAnalytical: {
		"analyze", "compare", "contrast", "examine", "differentiate",
		"distinguish", "deduce",
	},
	CategoryEvaluative: {
		"evaluate", "judge", "assess", "critique", "justify",
		"argue", "defend", "recommend",
	},
	CategoryApplication: {
		"apply", "use", "solve", "demonstrate", "calculate",
		"implement", "compute",
	},
	CategorySynthesis: {
		"design", "create", "develop", "compose", "construct",
		"formulate", "propose", "devise",
	},
}

var vagueWords = []string{
	"thing", "things", "stuff", "something", "somehow", "anything",
	"whatever", "etc",
}

var connectiveWords = []string{
	"because", "since", "although", "therefore", "however",
	"consequently", "whereas", "thus",
}
