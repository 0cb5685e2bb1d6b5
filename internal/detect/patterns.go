package detect

import "regexp"

// Role classifies what a registry pattern recognizes on a line.
type Role string

const (
	RoleQuestion  Role = "question"
	RoleOption    Role = "option"
	RoleAnswer    Role = "answer"
	RoleTrueFalse Role = "true-false"
)

// Pattern is one entry in the declarative registry. All line-shape
// knowledge lives here; strategies only count matches by role.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
	Role Role
}

var registry = []Pattern{
	{Name: "numbered-question", Re: regexp.MustCompile(`^\s*\d{1,3}[.)]\s+\S`), Role: RoleQuestion},
	{Name: "q-prefixed", Re: regexp.MustCompile(`^\s*[Qq]\d{1,3}\s*[:.)]?\s+\S`), Role: RoleQuestion},
	{Name: "question-word", Re: regexp.MustCompile(`(?i)^\s*question\s+\d{1,3}\b`), Role: RoleQuestion},
	{Name: "parenthetical-question", Re: regexp.MustCompile(`^\s*\(\d{1,3}\)\s+\S`), Role: RoleQuestion},

	{Name: "lettered-option", Re: regexp.MustCompile(`^\s*[A-Ha-h][.)]\s+\S`), Role: RoleOption},
	{Name: "bracketed-option", Re: regexp.MustCompile(`^\s*\[[A-Ha-h1-8]\]\s*\S`), Role: RoleOption},
	{Name: "parenthetical-option", Re: regexp.MustCompile(`^\s*\([A-Ha-h]\)\s*\S`), Role: RoleOption},

	{Name: "answer-line", Re: regexp.MustCompile(`(?i)^\s*(answer|ans|correct answer)\s*[:.]\s*\S`), Role: RoleAnswer},
	{Name: "is-correct", Re: regexp.MustCompile(`(?i)\b\S+\s+is\s+(the\s+)?correct\b`), Role: RoleAnswer},

	{Name: "true-false-token", Re: regexp.MustCompile(`(?i)\btrue\b.{0,20}\bfalse\b|\bfalse\b.{0,20}\btrue\b|\btrue\s*/\s*false\b`), Role: RoleTrueFalse},
}

// matchRole reports whether a line matches any registry pattern of the
// given role, and which pattern matched first.
func matchRole(line string, role Role) (string, bool) {
	for _, p := range registry {
		if p.Role == role && p.Re.MatchString(line) {
			return p.Name, true
		}
	}
	return "", false
}
