// Guessfilename
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Guessfilename.
//
// Guessfilename is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Guessfilename is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Guessfilename.  If not, see <http://www.gnu.org/licenses/>.

package deriver

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ZaparooProject/guessfilename/pkg/config"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/amounts"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/entities"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/matcher"
)

// keywordRule is a config.KeywordRule with its keyword patterns compiled.
type keywordRule struct {
	config.KeywordRule
	patterns []*regexp.Regexp
	keywords []string
}

func compileKeywordRules(rules []config.KeywordRule) []keywordRule {
	compiled := make([]keywordRule, 0, len(rules))
	for _, r := range rules {
		kr := keywordRule{KeywordRule: r}
		for _, kw := range r.Keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			kr.patterns = append(kr.patterns, keywordPatterns.word(kw, r.IgnoreCase))
			kr.keywords = append(kr.keywords, kw)
		}
		compiled = append(compiled, kr)
	}
	return compiled
}

func (r *keywordRule) matches(title string) bool {
	if r.Fuzzy {
		if r.MatchesAll() {
			return matcher.FuzzyContainsAllOf(title, r.Keywords)
		}
		return matcher.FuzzyContainsOneOf(title, r.Keywords)
	}

	if len(r.patterns) == 0 {
		return false
	}
	for _, re := range r.patterns {
		found := re.MatchString(title)
		if found && !r.MatchesAll() {
			return true
		}
		if !found && r.MatchesAll() {
			return false
		}
	}
	return r.MatchesAll()
}

// strip removes every occurrence of the rule's keywords from title. Fuzzy
// rules also drop the words that matched a keyword only approximately.
func (r *keywordRule) strip(title string) string {
	for i, re := range r.patterns {
		if re.MatchString(title) {
			title = removeAll(re, title)
			continue
		}
		if r.Fuzzy {
			title = stripSimilar(title, r.keywords[i])
		}
	}
	return title
}

// removeAll replaces matches of re until none are left. A single pass
// misses repeated keywords because each match consumes the whitespace
// the next one starts with.
func removeAll(re *regexp.Regexp, s string) string {
	for {
		out := re.ReplaceAllString(s, " ")
		if out == s {
			return s
		}
		s = out
	}
}

// stripSimilar removes the run of words in title that is most similar to
// keyword, if that run scores above matcher.Threshold.
func stripSimilar(title, keyword string) string {
	words := strings.Fields(title)
	n := len(strings.Fields(keyword))
	if n == 0 || len(words) < n {
		return title
	}

	best, bestScore, bestDiff := -1, matcher.Threshold, 0
	for i := 0; i+n <= len(words); i++ {
		window := strings.Join(words[i:i+n], " ")
		score := matcher.Similarity(keyword, window)
		diff := lengthDiff(window, keyword)
		if score > bestScore || (best >= 0 && score == bestScore && diff < bestDiff) {
			best, bestScore, bestDiff = i, score, diff
		}
	}
	if best < 0 {
		return title
	}
	return strings.Join(slices.Delete(words, best, best+n), " ")
}

func lengthDiff(a, b string) int {
	d := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if d < 0 {
		return -d
	}
	return d
}

// apply rewrites the title and adds the rule's tags. It returns false when
// the rule does not match parsed.
func (r *keywordRule) apply(parsed entities.ParsedFilename) (entities.ParsedFilename, bool) {
	if !r.matches(parsed.Title) {
		return parsed, false
	}

	amount, hasAmount := amounts.GetEuroCharge(parsed.Title)
	if r.RequireAmount && !hasAmount {
		return parsed, false
	}

	if r.Title != "" {
		rest := r.strip(parsed.Title)
		if hasAmount && strings.Contains(r.Title, config.PlaceholderAmount) {
			rest = amounts.StripEuroCharge(rest)
		}

		title := strings.NewReplacer(
			config.PlaceholderTitle, rest,
			config.PlaceholderAmount, amount,
		).Replace(r.Title)
		parsed.Title = entities.CollapseSpaces(title)
	}

	parsed.Tags = entities.MergeTags(parsed.Tags, r.Tags)
	return parsed, true
}
