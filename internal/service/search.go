// Package core implements the server-side search semantics: term matching
// and the excluded-term list.
package core

import (
	"regexp"
	"strings"
)

// TitleMatches reports whether a document title satisfies the search term.
// Exact mode compares the whole title case-insensitively. Partial mode
// requires every whitespace-separated word of the term to appear somewhere in
// the title. An empty term matches everything (list mode).
func TitleMatches(title, term string, exact bool) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}

	if exact {
		return strings.EqualFold(title, term)
	}

	titleLower := strings.ToLower(title)
	for _, word := range strings.Fields(strings.ToLower(term)) {
		if !strings.Contains(titleLower, word) {
			return false
		}
	}
	return true
}

// ExclusionList holds compiled excluded-search patterns. Patterns without
// wildcards match as whole words within the query; patterns with * are
// matched as a whole-query wildcard expression.
type ExclusionList struct {
	words    map[string]struct{}
	patterns []*regexp.Regexp
}

// ParseExclusions builds an ExclusionList from a comma-delimited setting
func ParseExclusions(csv string) *ExclusionList {
	list := &ExclusionList{words: make(map[string]struct{})}

	for _, raw := range strings.Split(csv, ",") {
		pattern := strings.ToLower(strings.TrimSpace(raw))
		if pattern == "" {
			continue
		}
		if !strings.Contains(pattern, "*") {
			list.words[pattern] = struct{}{}
			continue
		}
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
		if re, err := regexp.Compile(expr); err == nil {
			list.patterns = append(list.patterns, re)
		}
	}

	return list
}

// Excluded reports whether the query hits any exclusion pattern
func (l *ExclusionList) Excluded(query string) bool {
	if l == nil {
		return false
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return false
	}

	if len(l.words) > 0 {
		for _, word := range strings.Fields(query) {
			if _, ok := l.words[word]; ok {
				return true
			}
		}
	}

	for _, re := range l.patterns {
		if re.MatchString(query) {
			return true
		}
	}

	return false
}

// Empty reports whether the list has no patterns at all
func (l *ExclusionList) Empty() bool {
	return l == nil || (len(l.words) == 0 && len(l.patterns) == 0)
}
