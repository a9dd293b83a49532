package task

import (
	"regexp"
	"strings"
)

// urlPattern is a best-effort heuristic for http/https links pasted into task
// content, not a full URI grammar. It is deliberately permissive so real-world
// links with query strings and fragments survive intact: scheme, optional
// www., a host run of up to 256 chars, a dot, a short top-level segment, then
// an optional path/query/fragment run from an extended character class.
var urlPattern = regexp.MustCompile(
	`https?://(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b(?:[-a-zA-Z0-9()@:%_+.~#?&/=]*)`,
)

// tagPattern matches hashtag tokens: a # followed by a run of word characters.
// The boundary at the first non-word character is intentional, so "#valid-tag"
// yields the tag "valid".
var tagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractURLs returns all URL-looking substrings of content in order of
// appearance. Duplicates are preserved; no matches yields an empty slice.
func ExtractURLs(content string) []string {
	matches := urlPattern.FindAllString(content, -1)
	if matches == nil {
		return []string{}
	}

	return matches
}

// ExtractTags returns the lower-cased hashtag tokens of content, leading #
// stripped, in order of appearance. Duplicates are preserved; no matches
// yields an empty slice.
func ExtractTags(content string) []string {
	matches := tagPattern.FindAllStringSubmatch(content, -1)

	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(m[1]))
	}

	return tags
}
