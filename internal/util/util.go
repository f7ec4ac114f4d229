// Package util contains small string helpers shared by the macro engine and
// its hosts.
package util

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// ExtractTag returns the text found strictly between the first "<tagName>"
// and the nearest following "</tagName>". If the tag pair does not occur in
// input, the empty string is returned. Nested tags of the same name are not
// supported; the shortest span always wins.
func ExtractTag(input string, tagName string) string {
	quoted := regexp.QuoteMeta(tagName)
	tagRegex, err := regexp.Compile("(?s)<" + quoted + ">(.*?)</" + quoted + ">")
	if err != nil {
		return ""
	}

	m := tagRegex.FindStringSubmatch(input)
	if m == nil {
		return ""
	}
	return m[1]
}

// SplitOn splits input on every occurrence of the literal delimiter. Unlike
// strings.Split, empty segments are dropped from the result.
//
// An empty delimiter does not split at all; a non-empty input is returned as
// the only element.
func SplitOn(input string, delimiter string) []string {
	if delimiter == "" {
		if input == "" {
			return nil
		}
		return []string{input}
	}

	var segments []string
	for _, s := range strings.Split(input, delimiter) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// IsWebLink returns whether candidate is an absolute URI using the http or
// https scheme. Anything that fails to parse is simply not a web link.
func IsWebLink(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if !u.IsAbs() || u.Host == "" {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
