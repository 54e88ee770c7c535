// Package search implements the boolean query language used by `jobs list
// --query` and the search_jobs MCP tool.
//
// Bare terms are ANDed, OR separates alternatives, -term or NOT term negates
// and "quoted phrases" match as a whole. Matching is case-insensitive
// against the job title and its stack tags.
package search

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/vijay-prabhu/jobradar/internal/radar"
)

// Term is a single word or phrase in a query
type Term struct {
	Text    string
	Negated bool
	Phrase  bool
}

// Clause is a conjunction of terms
type Clause []Term

// Query is a disjunction of clauses. The zero Query matches everything.
type Query struct {
	Clauses []Clause
}

type token struct {
	text    string
	quoted  bool
	negated bool
}

// Parse parses a query string. It never fails: unbalanced quotes run to the
// end of the input and dangling operators are ignored.
func Parse(input string) Query {
	var q Query
	var current Clause
	negateNext := false

	flush := func() {
		if len(current) > 0 {
			q.Clauses = append(q.Clauses, current)
		}
		current = nil
	}

	for _, tok := range tokenize(input) {
		if !tok.quoted && !tok.negated {
			switch tok.text {
			case "OR":
				flush()
				negateNext = false
				continue
			case "AND":
				continue
			case "NOT":
				negateNext = true
				continue
			}
		}

		text := strings.ToLower(tok.text)
		if text == "" {
			continue
		}
		current = append(current, Term{
			Text:    text,
			Negated: tok.negated != negateNext,
			Phrase:  tok.quoted,
		})
		negateNext = false
	}
	flush()

	return q
}

func tokenize(input string) []token {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		var tok token
		if runes[i] == '-' && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			tok.negated = true
			i++
		}

		if runes[i] == '"' {
			tok.quoted = true
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			tok.text = strings.TrimSpace(string(runes[i+1 : end]))
			i = end + 1
		} else {
			end := i
			for end < len(runes) && !unicode.IsSpace(runes[end]) {
				end++
			}
			tok.text = string(runes[i:end])
			i = end
		}

		tokens = append(tokens, tok)
	}

	return tokens
}

// IsEmpty reports whether the query has no terms
func (q Query) IsEmpty() bool {
	return len(q.Clauses) == 0
}

// Matches reports whether the job satisfies the query
func (q Query) Matches(job radar.Job) bool {
	if q.IsEmpty() {
		return true
	}

	title := strings.ToLower(job.Title)
	tags := strings.ToLower(strings.Join(job.NormalizedStack, " "))

	return lo.SomeBy(q.Clauses, func(c Clause) bool {
		return lo.EveryBy(c, func(t Term) bool {
			hit := containsWord(title, t.Text) || containsWord(tags, t.Text)
			return hit != t.Negated
		})
	})
}

// Filter returns the jobs matching the query, preserving order
func (q Query) Filter(jobs []radar.Job) []radar.Job {
	return lo.Filter(jobs, func(job radar.Job, _ int) bool {
		return q.Matches(job)
	})
}

// String renders the query in normalised form
func (q Query) String() string {
	clauses := lo.Map(q.Clauses, func(c Clause, _ int) string {
		terms := lo.Map(c, func(t Term, _ int) string {
			s := t.Text
			if t.Phrase {
				s = `"` + s + `"`
			}
			if t.Negated {
				s = "-" + s
			}
			return s
		})
		return strings.Join(terms, " ")
	})
	return strings.Join(clauses, " OR ")
}
