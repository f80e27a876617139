package main

import (
	"strings"
)

// AnswerJudge decides whether a submitted answer matches the reference
// answer. The server treats it as an opaque predicate; with --manual-judging
// no judge is installed and the host rules on every answer instead.
type AnswerJudge interface {
	Judge(submitted, reference string) bool
}

// normalizedJudge compares answers after stripping case, punctuation,
// leading question phrasing ("what is", "who are", ...) and articles.
// Anything smarter than that belongs in a different judge implementation.
type normalizedJudge struct{}

func newNormalizedJudge() AnswerJudge {
	return normalizedJudge{}
}

func (normalizedJudge) Judge(submitted, reference string) bool {
	s := normalizeAnswer(submitted)
	if s == "" {
		return false
	}

	return s == normalizeAnswer(reference)
}

var questionPrefixes = []string{
	"what is", "what are", "whats", "what's",
	"who is", "who are", "whos", "who's",
	"where is", "where are",
}

var articles = []string{"a", "an", "the"}

func normalizeAnswer(answer string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(answer) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	joined := strings.Join(fields, " ")

	for _, prefix := range questionPrefixes {
		stripped := strings.ReplaceAll(prefix, "'", "")
		if strings.HasPrefix(joined, stripped+" ") {
			joined = strings.TrimPrefix(joined, stripped+" ")
			break
		}
	}

	for _, article := range articles {
		if strings.HasPrefix(joined, article+" ") {
			joined = strings.TrimPrefix(joined, article+" ")
			break
		}
	}

	return joined
}
