// Package fallback suggests legal sections from fixed keyword rules when the language model can't be used.
package fallback

import (
	"strconv"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/nyaya-ai/nyaya/internal/models"
)

// Matcher finds the rules whose keywords occur in a complaint in a single pass over the text.
//
// Matcher is safe for concurrent use.
type Matcher struct {
	rules   []Rule
	generic Rule
	// keywordRules maps the dictionary index reported by the automaton to the rules using that keyword.
	keywordRules [][]int
	matcher      *ahocorasick.Matcher
}

// NewMatcher compiles rules into an Aho-Corasick automaton. generic is returned when nothing matches.
func NewMatcher(rules []Rule, generic Rule) *Matcher {
	var (
		keywords     []string
		keywordIndex = make(map[string]int)
		keywordRules [][]int
	)
	for ruleIdx, rule := range rules {
		for _, kw := range rule.Keywords {
			normalized := strings.ToLower(strings.TrimSpace(kw))
			if normalized == "" {
				continue
			}
			idx, ok := keywordIndex[normalized]
			if !ok {
				idx = len(keywords)
				keywordIndex[normalized] = idx
				keywords = append(keywords, normalized)
				keywordRules = append(keywordRules, nil)
			}
			keywordRules[idx] = append(keywordRules[idx], ruleIdx)
		}
	}

	m := &Matcher{
		rules:        rules,
		generic:      generic,
		keywordRules: keywordRules,
		matcher:      nil,
	}
	if len(keywords) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return m
}

// NewDefaultMatcher uses [DefaultRules] and [GenericRule].
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultRules, GenericRule)
}

// Predict returns one prediction per matching rule in rule declaration order, or the generic rule if none match.
//
// limit caps the number of predictions. A limit of zero or less returns all matches. The result is never empty.
func (m *Matcher) Predict(complaintText string, limit int) []models.AIPrediction {
	matched := make([]bool, len(m.rules))
	if m.matcher != nil {
		for _, hit := range m.matcher.MatchThreadSafe([]byte(strings.ToLower(complaintText))) {
			if hit < 0 || hit >= len(m.keywordRules) {
				continue
			}
			for _, ruleIdx := range m.keywordRules[hit] {
				matched[ruleIdx] = true
			}
		}
	}

	var predictions []models.AIPrediction
	for ruleIdx, ok := range matched {
		if !ok {
			continue
		}
		if limit > 0 && len(predictions) >= limit {
			break
		}
		predictions = append(predictions, newPrediction(len(predictions)+1, m.rules[ruleIdx]))
	}
	if len(predictions) == 0 {
		predictions = append(predictions, newPrediction(1, m.generic))
	}
	return predictions
}

func newPrediction(n int, rule Rule) models.AIPrediction {
	return models.AIPrediction{
		ID:         "pred-" + strconv.Itoa(n),
		Section:    rule.Section,
		Confidence: rule.Confidence,
		Action:     models.OfficerActionUnset,
	}
}
