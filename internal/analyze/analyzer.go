package analyze

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/quizforge/quizforge/internal/quiz"
)

// Difficulty labels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Pedagogical categories.
const (
	CategoryFactual     = "factual"
	CategoryConceptual  = "conceptual"
	CategoryAnalytical  = "analytical"
	CategoryEvaluative  = "evaluative"
	CategoryApplication = "application"
	CategorySynthesis   = "synthesis"
)

// Analysis is the derived quality annotation for one question. It never
// feeds back into the question itself.
type Analysis struct {
	Score         int      `json:"score"`
	Difficulty    string   `json:"difficulty"`
	Category      string   `json:"category"`
	Readability   float64  `json:"readabilityScore"`
	OptionBalance float64  `json:"optionBalanceScore"`
	Clarity       float64  `json:"clarityScore"`
	Issues        []string `json:"issues"`
	Suggestions   []string `json:"suggestions"`
	Strengths     []string `json:"strengths"`
}

// QuizReport aggregates per-question analyses for a whole quiz.
type QuizReport struct {
	AverageScore    float64        `json:"averageScore"`
	DifficultyCount map[string]int `json:"difficultyCount"`
	CategoryCount   map[string]int `json:"categoryCount"`
	Flags           []string       `json:"flags"`
	Suggestions     []string       `json:"suggestions"`
}

// Composite score weights.
const (
	weightReadability = 0.3
	weightBalance     = 0.4
	weightClarity     = 0.3
)

var wordRe = regexp.MustCompile(`[a-zA-Z']+`)

// Analyze scores a single question. Pure and deterministic: the same
// question always gets the same analysis.
func Analyze(q quiz.Question) Analysis {
	a := Analysis{
		Readability:   readability(q.Text),
		OptionBalance: optionBalance(q.Options),
		Clarity:       clarity(q.Text),
		Difficulty:    classifyDifficulty(q.Text),
		Category:      classifyCategory(q.Text),
	}
	a.Score = int(math.Round(weightReadability*a.Readability + weightBalance*a.OptionBalance + weightClarity*a.Clarity))

	a.Issues, a.Suggestions, a.Strengths = annotate(q, a)
	return a
}

// readability is Flesch Reading Ease clamped to [0,100].
func readability(text string) float64 {
	words := wordRe.FindAllString(text, -1)
	if len(words) == 0 {
		return 0
	}
	sentences := countSentences(text)
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	score := 206.835 - 1.015*(float64(len(words))/float64(sentences)) - 84.6*(float64(syllables)/float64(len(words)))
	return clamp(score, 0, 100)
}

func countSentences(text string) int {
	n := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// countSyllables approximates by counting vowel groups. Trailing silent
// "e" is discounted; every word has at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

// optionBalance rewards options of similar length, with a bonus for the
// conventional four-option shape.
func optionBalance(options []string) float64 {
	if len(options) == 0 {
		return 0
	}
	mean := 0.0
	for _, opt := range options {
		mean += float64(len(opt))
	}
	mean /= float64(len(options))

	variance := 0.0
	for _, opt := range options {
		d := float64(len(opt)) - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(options)))

	score := math.Max(0, 100-2*stddev)
	if len(options) == 4 {
		score += 10
	}
	return clamp(score, 0, 100)
}

// clarity starts from 100 and walks penalty/bonus rules over the text.
func clarity(text string) float64 {
	score := 100.0
	lower := strings.ToLower(text)
	words := wordRe.FindAllString(lower, -1)

	for _, w := range words {
		for _, vague := range vagueWords {
			if w == vague {
				score -= 10
			}
		}
		for _, conn := range connectiveWords {
			if w == conn {
				score += 5
			}
		}
	}

	if len(text) > 200 {
		score -= 20
	}
	if len(text) > 300 {
		score -= 20
	}
	if len(text) < 10 {
		score -= 30
	}
	return clamp(score, 0, 100)
}

// classifyDifficulty is a keyword vote; ties favor hard over medium over
// easy.
func classifyDifficulty(text string) string {
	hits := lexiconHits(text, difficultyLexicons)
	best := DifficultyMedium
	bestCount := 0
	for _, level := range []string{DifficultyHard, DifficultyMedium, DifficultyEasy} {
		if hits[level] > bestCount {
			best = level
			bestCount = hits[level]
		}
	}
	return best
}

// classifyCategory picks the lexicon with the most hits, factual when
// nothing matches.
func classifyCategory(text string) string {
	hits := lexiconHits(text, categoryLexicons)
	best := CategoryFactual
	bestCount := 0
	for _, cat := range []string{
		CategoryFactual, CategoryConceptual, CategoryAnalytical,
		CategoryEvaluative, CategoryApplication, CategorySynthesis,
	} {
		if hits[cat] > bestCount {
			best = cat
			bestCount = hits[cat]
		}
	}
	return best
}

func lexiconHits(text string, lexicons map[string][]string) map[string]int {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]int, len(words))
	for _, w := range words {
		set[w]++
	}
	hits := make(map[string]int, len(lexicons))
	for name, keywords := range lexicons {
		for _, kw := range keywords {
			hits[name] += set[kw]
		}
	}
	return hits
}

func annotate(q quiz.Question, a Analysis) (issues, suggestions, strengths []string) {
	if a.Readability < 30 {
		issues = append(issues, "question text is hard to read")
		suggestions = append(suggestions, "shorten sentences and prefer simpler words")
	} else if a.Readability >= 70 {
		strengths = append(strengths, "easy to read")
	}

	if q.Type == quiz.TypeMultipleChoice {
		if a.OptionBalance < 60 {
			issues = append(issues, "option lengths are unbalanced")
			suggestions = append(suggestions, "even out option lengths so the answer does not stand out")
		} else if a.OptionBalance >= 90 {
			strengths = append(strengths, "well-balanced options")
		}
	}

	if a.Clarity < 60 {
		issues = append(issues, "question wording is unclear")
		suggestions = append(suggestions, "remove vague words and keep the question concise")
	} else if a.Clarity >= 90 {
		strengths = append(strengths, "clear wording")
	}

	return issues, suggestions, strengths
}

// AnalyzeQuiz runs per-question analysis and aggregates quiz-level flags:
// difficulty skew, low average quality and poor category diversity.
func AnalyzeQuiz(questions []quiz.Question) ([]Analysis, QuizReport) {
	report := QuizReport{
		DifficultyCount: make(map[string]int),
		CategoryCount:   make(map[string]int),
	}
	if len(questions) == 0 {
		return nil, report
	}

	analyses := make([]Analysis, len(questions))
	total := 0
	for i, q := range questions {
		analyses[i] = Analyze(q)
		total += analyses[i].Score
		report.DifficultyCount[analyses[i].Difficulty]++
		report.CategoryCount[analyses[i].Category]++
	}
	report.AverageScore = float64(total) / float64(len(questions))

	n := float64(len(questions))
	if float64(report.DifficultyCount[DifficultyEasy])/n >= 0.7 {
		report.Flags = append(report.Flags, "difficulty skew: most questions are easy")
		report.Suggestions = append(report.Suggestions, "add harder questions for balance")
	}
	if float64(report.DifficultyCount[DifficultyHard])/n >= 0.5 {
		report.Flags = append(report.Flags, "difficulty skew: half or more questions are hard")
		report.Suggestions = append(report.Suggestions, "add easier warm-up questions")
	}
	if report.AverageScore < 60 {
		report.Flags = append(report.Flags, fmt.Sprintf("low average quality: %.0f", report.AverageScore))
		report.Suggestions = append(report.Suggestions, "review flagged questions before publishing")
	}
	if len(report.CategoryCount) < 3 {
		report.Flags = append(report.Flags, "low category diversity")
		report.Suggestions = append(report.Suggestions, "mix factual, conceptual and applied questions")
	}

	return analyses, report
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
