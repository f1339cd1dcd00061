package levels

import "strings"

// Kind names a check kind.
type Kind string

const (
	KindAnswer Kind = "answer"
	KindLogin  Kind = "login"
)

// Submission is the player's payload for one level. Its shape depends on the
// rule: {"answer": ...} or {"user": ..., "pass": ...}.
type Submission map[string]any

// Field returns the string value of key, or "" when it is missing or not a string.
func (s Submission) Field(key string) string {
	v, ok := s[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Check is one condition of a rule.
type Check interface {
	Kind() Kind
	Satisfied(sub Submission) bool

	sealed()
}

// AnswerCheck requires the submitted "answer" to match, ignoring case and
// surrounding whitespace.
type AnswerCheck struct {
	Answer string
}

func (AnswerCheck) Kind() Kind { return KindAnswer }

func (c AnswerCheck) Satisfied(sub Submission) bool {
	return normalize(sub.Field("answer")) == c.Answer
}

func (AnswerCheck) sealed() {}

// LoginCheck is an embedded fake-login challenge: the submitted "user" and
// "pass" must both match, ignoring case and surrounding whitespace.
type LoginCheck struct {
	User string
	Pass string
}

func (LoginCheck) Kind() Kind { return KindLogin }

func (c LoginCheck) Satisfied(sub Submission) bool {
	return normalize(sub.Field("user")) == c.User && normalize(sub.Field("pass")) == c.Pass
}

func (LoginCheck) sealed() {}

// Rule gates one level. Checks run in order and the first failure rejects; a
// rule without checks accepts any submission.
type Rule struct {
	ID     string
	Next   string
	Checks []Check
}

// Evaluate reports whether sub satisfies every check of the rule.
func (r *Rule) Evaluate(sub Submission) bool {
	for _, c := range r.Checks {
		if !c.Satisfied(sub) {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
